/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func lastJSONLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	return m
}

func TestInitWritesRotatedJSONFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "builder.log")
	Init(Options{Level: "debug", Format: "json", File: fpath, Writer: &bytes.Buffer{}})
	t.Cleanup(func() { Init(Options{Writer: &bytes.Buffer{}}) })

	l := WithOperation(WithComponent("canvas"), "drop")
	l.Info("component added", slog.String("type", "ghostly-header"))
	time.Sleep(20 * time.Millisecond)

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	m := lastJSONLine(t, b)
	if m["app"] != "spookybuilder" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "canvas" || m["op"] != "drop" {
		t.Fatalf("context attrs mismatch: %v", m)
	}
	if m["type"] != "ghostly-header" {
		t.Fatalf("record attr mismatch: %v", m["type"])
	}
}

func TestProjectFromContextIsAttached(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Format: "json", Writer: &buf})
	t.Cleanup(func() { Init(Options{Writer: &bytes.Buffer{}}) })

	ctx := ContextWithProject(context.Background(), "proj_abc")
	L().InfoContext(ctx, "saved")
	m := lastJSONLine(t, buf.Bytes())
	if m["project"] != "proj_abc" {
		t.Fatalf("project attr = %v", m["project"])
	}

	buf.Reset()
	L().InfoContext(context.Background(), "plain")
	m = lastJSONLine(t, buf.Bytes())
	if _, ok := m["project"]; ok {
		t.Fatalf("unexpected project attr on plain context: %v", m)
	}
	if ProjectFromContext(nil) != "" {
		t.Fatalf("nil context should yield empty project")
	}
}

func TestAttrValueStringKeepsWholeFloats(t *testing.T) {
	cases := map[float64]string{40: "40", 100: "100", 0: "0", 2.5: "2.5", -0.125: "-0.125"}
	for in, want := range cases {
		if got := attrValueString(slog.Float64Value(in)); got != want {
			t.Errorf("attrValueString(%v) = %q, want %q", in, got, want)
		}
	}
}
