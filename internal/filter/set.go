package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Clause is one attribute with its OR-combined values.
type Clause struct {
	Attr   Attribute
	Values []Value
}

// Set is an insertion-ordered attribute -> values mapping. The order matters:
// it is the tie-break when two attributes share a relaxation priority.
// Methods never modify the receiver.
type Set struct {
	clauses []Clause
}

func NewSet(clauses ...Clause) Set {
	var s Set
	for _, c := range clauses {
		s = s.With(c.Attr, c.Values...)
	}
	return s
}

func (s Set) Len() int { return len(s.clauses) }

func (s Set) Empty() bool { return len(s.clauses) == 0 }

func (s Set) Attributes() []Attribute {
	out := make([]Attribute, 0, len(s.clauses))
	for _, c := range s.clauses {
		out = append(out, c.Attr)
	}
	return out
}

func (s Set) Clauses() []Clause {
	out := make([]Clause, len(s.clauses))
	for i, c := range s.clauses {
		out[i] = Clause{Attr: c.Attr, Values: append([]Value(nil), c.Values...)}
	}
	return out
}

func (s Set) Has(a Attribute) bool {
	return s.index(a) >= 0
}

func (s Set) Values(a Attribute) []Value {
	if i := s.index(a); i >= 0 {
		return append([]Value(nil), s.clauses[i].Values...)
	}
	return nil
}

// With returns a copy of s with vals appended to a. Duplicate values are
// dropped; a new attribute goes to the end.
func (s Set) With(a Attribute, vals ...Value) Set {
	out := Set{clauses: s.Clauses()}
	i := out.index(a)
	if i < 0 {
		out.clauses = append(out.clauses, Clause{Attr: a})
		i = len(out.clauses) - 1
	}
	for _, v := range vals {
		if !containsValue(out.clauses[i].Values, v) {
			out.clauses[i].Values = append(out.clauses[i].Values, v)
		}
	}
	return out
}

// Without returns a copy of s with a removed.
func (s Set) Without(a Attribute) Set {
	out := Set{clauses: make([]Clause, 0, len(s.clauses))}
	for _, c := range s.Clauses() {
		if c.Attr != a {
			out.clauses = append(out.clauses, c)
		}
	}
	return out
}

func (s Set) String() string {
	parts := make([]string, 0, len(s.clauses))
	for _, c := range s.clauses {
		vals := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			vals = append(vals, v.String())
		}
		parts = append(parts, string(c.Attr)+"="+strings.Join(vals, "|"))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func (s Set) index(a Attribute) int {
	for i, c := range s.clauses {
		if c.Attr == a {
			return i
		}
	}
	return -1
}

func containsValue(vals []Value, v Value) bool {
	for _, x := range vals {
		if x == v {
			return true
		}
	}
	return false
}

// MarshalJSON writes an object whose keys keep insertion order.
func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.clauses {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(string(c.Attr))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		vals := c.Values
		if vals == nil {
			vals = []Value{}
		}
		v, err := json.Marshal(vals)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of attribute -> value or [values], keeping
// the key order of the document.
func (s *Set) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = Set{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("filter set: expected object, got %v", tok)
	}

	var out Set
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		attr := Attribute(strings.ToLower(strings.TrimSpace(key)))

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		raw = bytes.TrimSpace(raw)

		var vals []Value
		switch {
		case bytes.Equal(raw, []byte("null")):
		case len(raw) > 0 && raw[0] == '[':
			if err := json.Unmarshal(raw, &vals); err != nil {
				return fmt.Errorf("filter set %q: %w", key, err)
			}
		default:
			var v Value
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("filter set %q: %w", key, err)
			}
			vals = []Value{v}
		}
		out = out.With(attr, vals...)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
