/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package canvas

import "fmt"

// EventKind identifies a canvas notification.
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventMoved
	EventResized
	EventPropertyChanged
	EventRemoved
	EventSelected
	EventCleared
	EventDragEnd
	EventRestacked
	EventZoomed
)

var eventNames = map[EventKind]string{
	EventAdded:           "added",
	EventMoved:           "moved",
	EventResized:         "resized",
	EventPropertyChanged: "property-changed",
	EventRemoved:         "removed",
	EventSelected:        "selected",
	EventCleared:         "cleared",
	EventDragEnd:         "drag-end",
	EventRestacked:       "restacked",
	EventZoomed:          "zoomed",
}

func (k EventKind) String() string {
	if s, ok := eventNames[k]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Modifies reports whether the event changes persisted document state.
func (k EventKind) Modifies() bool {
	switch k {
	case EventAdded, EventMoved, EventResized, EventPropertyChanged, EventRemoved, EventCleared, EventRestacked:
		return true
	}
	return false
}

// Event is delivered synchronously to canvas subscribers.
type Event struct {
	Kind        EventKind
	ComponentID string
	Property    string
	Value       any
}
