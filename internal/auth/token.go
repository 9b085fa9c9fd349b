// Package auth provides the bearer token codec and request identity helpers.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Token format: {secret} id={user_id}
// Example: s3cret id=42
const idPrefix = "id="

var (
	// ErrTokenMissing indicates no Authorization header was supplied.
	ErrTokenMissing = errors.New("authorization header is missing")
	// ErrTokenMalformed indicates the token does not have the expected shape or secret.
	ErrTokenMalformed = errors.New("invalid authorization token format")
	// ErrTokenBadID indicates the id field is not an integer.
	ErrTokenBadID = errors.New("invalid authorization token")
)

// IsInvalid reports whether err is one of the rejected-token errors.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenBadID)
}

// Codec issues and parses tokens bound to a single shared secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a Codec. The secret must be non-empty and free of
// whitespace, otherwise issued tokens could not be parsed back.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if strings.ContainsAny(secret, " \t\r\n") {
		return nil, errors.New("token secret contains whitespace")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode returns the token for a user id.
func (c *Codec) Encode(userID int64) string {
	return fmt.Sprintf("%s %s%d", c.secret, idPrefix, userID)
}

// Decode extracts the user id from an Authorization header value.
func (c *Codec) Decode(header string) (int64, error) {
	if header == "" {
		return 0, ErrTokenMissing
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return 0, ErrTokenMalformed
	}
	if subtle.ConstantTimeCompare([]byte(parts[0]), c.secret) != 1 {
		return 0, ErrTokenMalformed
	}

	raw, ok := strings.CutPrefix(parts[1], idPrefix)
	if !ok {
		return 0, ErrTokenMalformed
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrTokenBadID
	}

	return id, nil
}
