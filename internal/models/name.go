// ABOUTME: Validated labels for categories and images
// ABOUTME: Names are NFC-normalized and free of filesystem-reserved characters

package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidName is matched by every NameError.
var ErrInvalidName = errors.New("invalid name")

// reservedChars cannot appear in a Name. '_' separates the position from the
// name on disk and '.' introduces the suffix, so both are reserved.
const reservedChars = `/\._:*?"<>|`

// NameError reports why a raw string was rejected as a Name.
type NameError struct {
	Raw    string
	Reason string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Raw, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidName) match any NameError.
func (e *NameError) Is(target error) bool {
	return target == ErrInvalidName
}

// Name is an immutable, filesystem-safe label.
type Name struct {
	value string
}

// NewName validates raw and returns it as a Name.
func NewName(raw string) (Name, error) {
	normalized := norm.NFC.String(raw)
	if err := ValidateName(normalized); err != nil {
		return Name{}, err
	}
	return Name{value: normalized}, nil
}

// MustName is NewName for constants and tests; it panics on invalid input.
func MustName(raw string) Name {
	n, err := NewName(raw)
	if err != nil {
		panic(err)
	}
	return n
}

// ValidateName checks raw against the Name rules without normalizing it.
func ValidateName(raw string) error {
	if raw == "" {
		return &NameError{Raw: raw, Reason: "name cannot be empty"}
	}
	if i := strings.IndexAny(raw, reservedChars); i >= 0 {
		return &NameError{Raw: raw, Reason: fmt.Sprintf("reserved character %q", raw[i])}
	}
	for _, r := range raw {
		if r == 0 || unicode.IsControl(r) {
			return &NameError{Raw: raw, Reason: "control characters are not allowed"}
		}
	}
	return nil
}

// String returns the label text.
func (n Name) String() string {
	return n.value
}

// IsZero reports whether n is the zero Name, which NewName never returns.
func (n Name) IsZero() bool {
	return n.value == ""
}

// Equal reports structural equality.
func (n Name) Equal(other Name) bool {
	return n.value == other.value
}
