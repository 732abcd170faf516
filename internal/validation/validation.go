// Package validation holds the pure input checks applied before any document
// write. All checks are stateless; an error carries a user-facing message.
package validation

import (
	"fmt"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// MaxTitleLength is the title cap in characters (runes, not bytes).
	MaxTitleLength = 200
	// MaxContentBytes is the content cap measured in UTF-8 encoded bytes.
	// Multi-byte characters count more than one.
	MaxContentBytes = 100 * 1024
	// MinEditKeyLength is the minimum plausible edit key length. This is a
	// shape check only; it never tells whether the key matches a document.
	MinEditKeyLength = 10
)

// Title fails when the title exceeds MaxTitleLength characters.
func Title(title string) error {
	return ozzo.Validate(title,
		ozzo.RuneLength(0, MaxTitleLength).
			Error(fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTitleLength)),
	)
}

// ContentSize fails when the serialized byte length of content exceeds
// MaxContentBytes. ozzo's Length counts bytes for strings, which is exactly
// the bound we want here.
func ContentSize(content string) error {
	return ozzo.Validate(content,
		ozzo.Length(0, MaxContentBytes).
			Error(fmt.Sprintf("Content size exceeds maximum allowed size of %dKB", MaxContentBytes/1024)),
	)
}

// EditKey fails when the presented key is missing or shorter than
// MinEditKeyLength characters.
func EditKey(key string) error {
	return ozzo.Validate(key,
		ozzo.Required.Error("Invalid edit key"),
		ozzo.RuneLength(MinEditKeyLength, 0).Error("Invalid edit key"),
	)
}
