// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package numconv converts non-negative integers between the binary,
// decimal and hexadecimal positional numeral systems
package numconv

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const digits = "0123456789ABCDEF"

var (
	ErrUnsupportedBase = errors.New("unsupported base")
	ErrInvalidDigit    = errors.New("invalid digit")
	ErrEmptyNumber     = errors.New("empty number")
)

// Bases maps system names to their base
var Bases = map[string]int{
	"binary":      2,
	"decimal":     10,
	"hexadecimal": 16,
}

func validateBase(base int) error {
	for _, b := range Bases {
		if b == base {
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrUnsupportedBase, base)
}

// Convert rewrites number, given in base from, in base to. Hex digits
// must be uppercase and the result uses uppercase digits.
func Convert(number string, from int, to int) (string, error) {
	if err := validateBase(from); err != nil {
		return "", err
	}
	if err := validateBase(to); err != nil {
		return "", err
	}
	if number == "" {
		return "", ErrEmptyNumber
	}
	allowed := digits[:from]
	for _, c := range number {
		if !strings.ContainsRune(allowed, c) {
			return "", fmt.Errorf(
				"%w: %q in base %d number %q",
				ErrInvalidDigit,
				c,
				from,
				number,
			)
		}
	}
	value, ok := new(big.Int).SetString(number, from)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDigit, number)
	}
	return strings.ToUpper(value.Text(to)), nil
}
