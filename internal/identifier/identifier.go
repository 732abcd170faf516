package identifier

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultEditKeyBytes is the entropy of a freshly minted edit key.
	DefaultEditKeyBytes = 32

	slugMaxLen     = 50
	slugSuffixLen  = 4
	slugFallback   = "document"
	suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugHyphens  = regexp.MustCompile(`-+`)
	slugTrailing = regexp.MustCompile(`-+$`)
	slugShape    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?-[a-z0-9]{4}$`)
)

// NewEditKey returns n cryptographically secure random bytes encoded with
// unpadded URL-safe base64 (no '+', '/' or '='; the key travels in JSON
// bodies and share links). Predictable keys would be a full authorization
// bypass, so this must stay on crypto/rand.
func NewEditKey(n int) string {
	if n <= 0 {
		n = DefaultEditKeyBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; refusing to start
		// is better than handing out a weak key.
		panic(fmt.Sprintf("identifier: read random: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// NewDocumentID returns the storage primary key for a new document.
// UUIDs never end in "-<4 alnum>" so an ID can always be told apart from a
// slug (see ValidSlug).
func NewDocumentID() string {
	return uuid.NewString()
}

// NewSlug derives a shareable identifier from a title: "My Document" becomes
// "my-document-a3f2". The 4-char suffix is a collision nonce, not a secret,
// so math/rand is sufficient.
func NewSlug(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		slug = slugFallback
	}
	if len(slug) > slugMaxLen {
		slug = slugTrailing.ReplaceAllString(slug[:slugMaxLen], "")
	}

	suffix := make([]byte, slugSuffixLen)
	for i := range suffix {
		suffix[i] = suffixAlphabet[mrand.Intn(len(suffixAlphabet))]
	}
	return slug + "-" + string(suffix)
}

// ValidSlug reports whether s has slug shape: a lowercase alphanumeric base
// (hyphens allowed inside) followed by a 4-char alphanumeric suffix.
func ValidSlug(s string) bool {
	return slugShape.MatchString(s)
}
