// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parsecmd

import "encoding/json"

// Value is a captured argument or flag value. The zero Value is Absent.
//
// A Value that is present may still hold the empty string, for example a flag
// declared with length 0.
type Value struct {
	s  string
	ok bool
}

// Present returns a Value holding s.
func Present(s string) Value {
	return Value{s: s, ok: true}
}

// Absent returns a Value holding nothing.
func Absent() Value {
	return Value{}
}

// Get returns the captured text and whether anything was captured.
func (v Value) Get() (string, bool) {
	return v.s, v.ok
}

// IsPresent reports whether anything was captured.
func (v Value) IsPresent() bool {
	return v.ok
}

// Or returns the captured text, or def if v is absent.
func (v Value) Or(def string) string {
	if !v.ok {
		return def
	}
	return v.s
}

// String returns the captured text, or "" if v is absent.
func (v Value) String() string {
	return v.s
}

// Equal reports whether v and o are both absent or both present with the
// same text. It lets go-cmp compare Values.
func (v Value) Equal(o Value) bool {
	return v == o
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.s)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil {
		*v = Absent()
		return nil
	}
	*v = Present(*s)
	return nil
}

// MarshalYAML renders an absent Value as null.
func (v Value) MarshalYAML() (any, error) {
	if !v.ok {
		return nil, nil
	}
	return v.s, nil
}
