package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

const lessonIDPrefix = "lesson"

var idEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// newRandomID returns prefix-<suffix> where suffix is 8 lowercase base32 chars (40 bits).
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return prefix + "-" + strings.ToLower(idEncoding.EncodeToString(b[:])), nil
}

// IsLessonID reports whether s has the shape of a generated lesson id.
func IsLessonID(s string) bool {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), lessonIDPrefix+"-")
	if !ok || len(rest) != 8 {
		return false
	}
	for _, c := range rest {
		if !(c >= 'a' && c <= 'z') && !(c >= '2' && c <= '7') {
			return false
		}
	}
	return true
}
