package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type ValueKind uint8

const (
	StringKind ValueKind = iota + 1
	BoolKind
)

func (k ValueKind) String() string {
	switch k {
	case StringKind:
		return "string"
	case BoolKind:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is either a string or a bool. The zero Value is invalid.
type Value struct {
	kind ValueKind
	str  string
	flag bool
}

func StringValue(s string) Value { return Value{kind: StringKind, str: s} }
func BoolValue(b bool) Value     { return Value{kind: BoolKind, flag: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Str() (string, bool) { return v.str, v.kind == StringKind }

func (v Value) Bool() (bool, bool) { return v.flag, v.kind == BoolKind }

func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return v.str
	case BoolKind:
		return strconv.FormatBool(v.flag)
	default:
		return "<invalid>"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case StringKind:
		return json.Marshal(v.str)
	case BoolKind:
		return json.Marshal(v.flag)
	default:
		return nil, fmt.Errorf("%w: zero value", ErrInvalidFilterValue)
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = StringValue(x)
	case bool:
		*v = BoolValue(x)
	default:
		return fmt.Errorf("%w: %s is neither string nor bool", ErrInvalidFilterValue, string(b))
	}
	return nil
}
