// Package id issues the identifiers of groups, loan requests, payments and
// ledger entries.
package id

import (
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var reMemberID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// NewID32 returns a random UUID as 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// IsID32 reports whether s has the shape NewID32 produces.
func IsID32(s string) bool {
	if len(s) != 32 || strings.ToLower(s) != s {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// IsMemberID reports whether s is an acceptable member id: 1 to 64 letters,
// digits, '_' or '-'. Member ids end up inside redis keys.
func IsMemberID(s string) bool { return reMemberID.MatchString(s) }
