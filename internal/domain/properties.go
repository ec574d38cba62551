/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Properties is an ordered name to value mapping. Values are string, float64
// or bool; other numeric types are normalised to float64 on Set.
// The zero value is ready to use. Copies share storage, use Clone.
type Properties struct {
	keys []string
	vals map[string]any
}

// NewProperties builds Properties from alternating name, value pairs.
func NewProperties(kv ...any) Properties {
	var p Properties
	for i := 0; i+1 < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			continue
		}
		p.Set(name, kv[i+1])
	}
	return p
}

// Normalize converts Go numeric types to float64 and leaves everything else alone.
func Normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

// Set stores value under name and reports whether the stored value changed.
func (p *Properties) Set(name string, value any) bool {
	value = Normalize(value)
	if p.vals == nil {
		p.vals = make(map[string]any)
	}
	old, ok := p.vals[name]
	if ok && reflect.DeepEqual(old, value) {
		return false
	}
	if !ok {
		p.keys = append(p.keys, name)
	}
	p.vals[name] = value
	return true
}

// Get returns the value stored under name.
func (p Properties) Get(name string) (any, bool) {
	v, ok := p.vals[name]
	return v, ok
}

// Has reports whether name is set.
func (p Properties) Has(name string) bool {
	_, ok := p.vals[name]
	return ok
}

// Delete removes name, keeping the order of the rest.
func (p *Properties) Delete(name string) {
	if _, ok := p.vals[name]; !ok {
		return
	}
	delete(p.vals, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the property names in order.
func (p Properties) Keys() []string { return append([]string(nil), p.keys...) }

// Len returns the number of properties.
func (p Properties) Len() int { return len(p.keys) }

// String returns the value under name formatted as text ("" when absent).
func (p Properties) String(name string) string {
	v, ok := p.vals[name]
	if !ok || v == nil {
		return ""
	}
	return FormatValue(v)
}

// Float returns a numeric value, parsing strings when needed.
func (p Properties) Float(name string) (float64, bool) {
	switch v := p.vals[name].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Bool returns a boolean value; "enabled" and "true" count as true.
func (p Properties) Bool(name string) bool {
	switch v := p.vals[name].(type) {
	case bool:
		return v
	case string:
		return v == "enabled" || v == "true"
	}
	return false
}

// Clone returns an independent copy.
func (p Properties) Clone() Properties {
	out := Properties{keys: append([]string(nil), p.keys...), vals: make(map[string]any, len(p.vals))}
	for k, v := range p.vals {
		out.vals[k] = v
	}
	return out
}

// Equal compares keys, order and values.
func (p Properties) Equal(o Properties) bool {
	if len(p.keys) != len(o.keys) {
		return false
	}
	for i, k := range p.keys {
		if o.keys[i] != k || !reflect.DeepEqual(p.vals[k], o.vals[k]) {
			return false
		}
	}
	return true
}

// Range calls fn for each property in order until fn returns false.
func (p Properties) Range(fn func(name string, value any) bool) {
	for _, k := range p.keys {
		if !fn(k, p.vals[k]) {
			return
		}
	}
}

// FormatValue renders a property value the way it appears in markup and panels.
func FormatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// MarshalJSON writes the properties as an object in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(p.vals[k])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping document order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = Properties{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}
	out := Properties{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", kt)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("property %q: %w", key, err)
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}
