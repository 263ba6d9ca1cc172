// Copyright 2025 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package report renders block data, verification and search results
// for terminal output
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blinklabs-io/powlab/internal/blockdata"
	"github.com/blinklabs-io/powlab/pow"
)

// FormatBinary renders value as bitLength binary digits, split into
// space separated groups of groupSize digits
func FormatBinary(value uint64, bitLength int, groupSize int) string {
	binary := fmt.Sprintf("%0*b", bitLength, value)
	if groupSize <= 0 {
		return binary
	}
	groups := make([]string, 0, (len(binary)+groupSize-1)/groupSize)
	for i := 0; i < len(binary); i += groupSize {
		groups = append(groups, binary[i:min(i+groupSize, len(binary))])
	}
	return strings.Join(groups, " ")
}

func banner(w io.Writer, title string) {
	line := strings.Repeat("#", len(title)+8)
	fmt.Fprintf(w, "\n%s\n### %s ###\n%s\n", line, title, line)
}

// BlockFields prints the fetched block record with each field's type and size
func BlockFields(w io.Writer, block *blockdata.RawBlock) {
	banner(w, "Fetched Block Details")
	fmt.Fprintf(w, "%-15s %-10s %-15s %s\n", "Field", "Type", "Size (bytes)", "Value")
	fmt.Fprintln(w, strings.Repeat("-", 107))
	for _, field := range block.Fields() {
		fmt.Fprintf(
			w,
			"%-15s %-10s %-15d %s\n",
			field.Name,
			field.Value.Kind,
			field.Value.Size(),
			field.Value,
		)
		if field.Name == "time" && field.Value.Kind == blockdata.FieldInteger {
			fmt.Fprintf(
				w,
				"%-15s %-10s %-15s %s\n",
				"   (to UTC)",
				"",
				"",
				time.Unix(int64(field.Value.Int), 0).UTC().Format(time.DateTime),
			)
		}
	}
}

// CompactTarget prints how the compact bits value expands into the target
func CompactTarget(w io.Writer, bits uint32) {
	parts := pow.SplitCompact(bits)
	banner(w, "Target From Bits")
	fmt.Fprintf(w, "%-20s %s\n", "bits:", FormatBinary(uint64(bits), 32, 8))
	fmt.Fprintf(w, "%-20s %s (%d)\n", "exponent:", FormatBinary(uint64(parts.Exponent), 8, 8), parts.Exponent)
	fmt.Fprintf(w, "%-20s          %s\n", "mantissa:", FormatBinary(uint64(parts.Mantissa), 24, 8))
	shift := int(parts.Exponent) - 3
	if shift >= 0 {
		fmt.Fprintf(w, "%-20s mantissa followed by %d bytes of 0s\n", "target:", shift)
	} else {
		fmt.Fprintf(w, "%-20s mantissa with its last %d bytes dropped\n", "target:", -shift)
	}
}

// Verification prints a header verification result
func Verification(w io.Writer, result *pow.VerificationResult) {
	banner(w, "Hash Verification")
	const labelWidth = 53
	row := func(label string, value any) {
		fmt.Fprintf(w, "%-*s %v\n", labelWidth, label, value)
	}
	row("Reconstructed block hash (in base 16/hex):", result.ReconstructedHash)
	if result.HashMatchesReference != nil {
		row("Reconstructed block hash == fetched block hash:", *result.HashMatchesReference)
	}
	row("Target (in base 10/decimal):", result.Target)
	row("Reconstructed block hash (in base 10/decimal):", result.HashAsInteger)
	row("Reconstructed block hash < target:", result.HashBelowTarget)
}

// NonceSearch prints a nonce search result
func NonceSearch(w io.Writer, result *pow.NonceSearchResult, elapsed time.Duration, cached bool) {
	banner(w, "Results")
	fmt.Fprintf(w, "%-26s%d\n", "First valid nonce found:", result.Nonce)
	fmt.Fprintf(w, "%-26s%s\n", "Hash:", result.Hash)
	if cached {
		fmt.Fprintf(w, "%-26s%s\n", "Time taken:", "cached")
		return
	}
	fmt.Fprintf(w, "%-26s%.3f seconds\n", "Time taken:", elapsed.Seconds())
}
