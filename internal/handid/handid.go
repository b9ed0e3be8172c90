// Package handid names dealt hands. An ID is a UUIDv7 rendered as
// 26 Crockford base32 characters, so lexicographic order matches deal
// order and IDs stay easy to paste into logs and bug reports.
package handid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// New returns the ID for a freshly generated UUIDv7
func New() string {
	return FromUUID(uuid.Must(uuid.NewV7()))
}

// FromUUID renders an existing UUID as a hand ID, letting tests pin the
// input exactly.
func FromUUID(u uuid.UUID) string {
	var b strings.Builder
	b.Grow(26)

	// Stream the 128 bits out five at a time, high bits first, so the
	// encoding preserves the UUIDv7 timestamp ordering.
	var acc, bits uint
	for _, by := range u {
		acc = acc<<8 | uint(by)
		bits += 8
		for bits >= 5 {
			bits -= 5
			b.WriteByte(alphabet[(acc>>bits)&0x1f])
		}
	}
	// 128 = 25*5 + 3: the last three bits fill the final character
	b.WriteByte(alphabet[(acc<<(5-bits))&0x1f])

	return b.String()
}

// Validate checks that an ID is 26 valid base32 characters
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand ID must be exactly 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
