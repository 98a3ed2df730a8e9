package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"savings-group-backend/pkg/id"
)

const (
	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	// Allowed client/server clock skew for Ax-Request-At.
	maxClockSkew = 10 * time.Minute
)

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-5][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

func digest(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// buildKey scopes a request id to the route and the calling member.
func buildKey(method, route, memberID, requestID string) string {
	return "idemp:" + strings.ToLower(method) + ":" + route + ":" + memberID + ":" + requestID
}

func validRequestID(requestID string) bool {
	return reUUID.MatchString(requestID) || id.IsID32(requestID)
}

// requestMeta is what a mutating request must carry to be deduplicated.
type requestMeta struct {
	RequestID string
	SentAt    time.Time
	MemberID  string
}

// readMeta validates the idempotency headers; the error text is safe to return to clients.
func readMeta(h http.Header, now time.Time) (requestMeta, error) {
	var m requestMeta

	m.RequestID = strings.TrimSpace(h.Get(HeaderRequestID))
	switch {
	case m.RequestID == "":
		return m, errors.New("missing " + HeaderRequestID)
	case !validRequestID(m.RequestID):
		return m, errors.New("invalid " + HeaderRequestID + " format")
	}

	sentAt, err := parseRequestAt(h.Get(HeaderRequestAt))
	if err != nil {
		return m, err
	}
	if sentAt.Before(now.Add(-maxClockSkew)) || sentAt.After(now.Add(maxClockSkew)) {
		return m, errors.New(HeaderRequestAt + " too skewed")
	}
	m.SentAt = sentAt

	m.MemberID = strings.TrimSpace(h.Get(HeaderMemberID))
	switch {
	case m.MemberID == "":
		return m, errors.New("missing " + HeaderMemberID)
	case !id.IsMemberID(m.MemberID):
		return m, errors.New("invalid " + HeaderMemberID)
	}
	return m, nil
}

// parseRequestAt accepts epoch seconds, epoch milliseconds, or RFC3339(Nano)
// with an explicit zone. Naive local timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	// RFC3339Nano also parses values without fractional seconds
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}
