/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage implements builder persistence.
// All state lives in a small key-value store: the "projects" key holds every saved document as one JSON blob,
// "settings" holds user preferences and "clipboard" the last copied component.
// Two backends are provided: a directory of JSON files written transactionally with timestamped backups,
// and an embedded SQLite database (pure Go driver) with a versioned schema.
package storage
