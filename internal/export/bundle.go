/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"spookybuilder/internal/domain"
)

// Bundle entry names.
const (
	BundleIndex   = "index.html"
	BundleProject = "project.json"
	BundlePreview = "preview.png"
)

// Bundle writes a ZIP archive holding the HTML page, the JSON export and a
// preview bitmap of doc.
func Bundle(ctx context.Context, w io.Writer, doc domain.Document, items []Item, c Capturer, now time.Time) error {
	if err := Validate(doc); err != nil {
		return err
	}
	zw := zip.NewWriter(w)

	var buf bytes.Buffer
	if err := HTML(&buf, doc, items); err != nil {
		return err
	}
	if err := addZipFile(zw, BundleIndex, buf.Bytes(), now); err != nil {
		return fmt.Errorf("zip add page: %w", err)
	}

	buf.Reset()
	if err := JSON(&buf, doc, Snapshots(items), now); err != nil {
		return err
	}
	if err := addZipFile(zw, BundleProject, buf.Bytes(), now); err != nil {
		return fmt.Errorf("zip add project: %w", err)
	}

	buf.Reset()
	if _, err := PNG(ctx, &buf, SceneOf(doc, items), c, 1); err != nil {
		return err
	}
	if err := addZipFile(zw, BundlePreview, buf.Bytes(), now); err != nil {
		return fmt.Errorf("zip add preview: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close zip: %w", err)
	}
	return nil
}

func addZipFile(zw *zip.Writer, name string, data []byte, mod time.Time) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: mod})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
