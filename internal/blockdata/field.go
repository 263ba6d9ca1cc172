// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package blockdata

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

var (
	ErrMissingField     = errors.New("missing field")
	ErrUnsupportedField = errors.New("unsupported field value")
	ErrFieldType        = errors.New("unexpected field type")
	ErrFieldWidth       = errors.New("field value too wide")
)

type FieldKind int

const (
	FieldMissing FieldKind = iota
	FieldInteger
	FieldHex
)

func (k FieldKind) String() string {
	switch k {
	case FieldInteger:
		return "int"
	case FieldHex:
		return "hex"
	default:
		return "missing"
	}
}

// FieldValue is a block record value, typed once when the record is
// decoded: either a non-negative integer or a hex-encoded byte string
type FieldValue struct {
	Kind  FieldKind
	Int   uint64
	Bytes []byte
	text  string
}

func IntegerField(v uint64) FieldValue {
	return FieldValue{
		Kind: FieldInteger,
		Int:  v,
		text: strconv.FormatUint(v, 10),
	}
}

func HexField(s string) (FieldValue, error) {
	// A hex value must be made of pairs of hex digits
	data, err := hex.DecodeString(s)
	if err != nil {
		return FieldValue{}, fmt.Errorf("%w: %q is not hex: %s", ErrUnsupportedField, s, err)
	}
	return FieldValue{
		Kind:  FieldHex,
		Bytes: data,
		text:  s,
	}, nil
}

func (f *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FieldValue{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		tmp, err := HexField(s)
		if err != nil {
			return err
		}
		*f = tmp
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedField, data)
	}
	*f = IntegerField(v)
	return nil
}

func (f FieldValue) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldInteger:
		return []byte(f.text), nil
	case FieldHex:
		return json.Marshal(f.text)
	default:
		return []byte("null"), nil
	}
}

// Size returns the number of bytes needed to hold the value
func (f FieldValue) Size() int {
	switch f.Kind {
	case FieldInteger:
		return (bits.Len64(f.Int) + 7) / 8
	case FieldHex:
		return len(f.Bytes)
	default:
		return 0
	}
}

func (f FieldValue) String() string {
	return f.text
}

func (f FieldValue) uint32(name string) (uint32, error) {
	switch f.Kind {
	case FieldMissing:
		return 0, fmt.Errorf("%w: %s", ErrMissingField, name)
	case FieldInteger:
		if f.Int > 0xffffffff {
			return 0, fmt.Errorf("%w: %s: %d does not fit in 32 bits", ErrFieldWidth, name, f.Int)
		}
		return uint32(f.Int), nil
	default:
		return 0, fmt.Errorf("%w: %s: got %s, want int", ErrFieldType, name, f.Kind)
	}
}

func (f FieldValue) hash(name string) (string, error) {
	switch f.Kind {
	case FieldMissing:
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	case FieldHex:
		if len(f.Bytes) != 32 {
			return "", fmt.Errorf("%w: %s: got %d bytes, want 32", ErrFieldWidth, name, len(f.Bytes))
		}
		return f.text, nil
	default:
		return "", fmt.Errorf("%w: %s: got %s, want hex", ErrFieldType, name, f.Kind)
	}
}
