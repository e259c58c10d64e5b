// Package token decodes bearer-token claims on the client side.
//
// Nothing here verifies a signature. The client trusts a token only because it
// came back from the login exchange over HTTPS; a successful Decode says the
// payload is readable, not that it is authentic. The only claim consulted is
// exp.
package token

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status is the three-valued result of CheckExpiry. Callers must treat both
// StatusExpired and StatusInvalid as "cannot use this token".
type Status int

const (
	StatusInvalid Status = iota
	StatusExpired
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusExpired:
		return "expired"
	case StatusValid:
		return "valid"
	default:
		return "invalid"
	}
}

// Usable reports whether a token with this status may be sent to the API.
func (s Status) Usable() bool {
	return s == StatusValid
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the payload segment of raw (the part after the first '.') as
// base64url-encoded JSON. It returns false when there is no payload segment,
// the segment is not valid base64url, or the decoded bytes are not a JSON
// object. It never panics.
func Decode(raw string) (jwt.MapClaims, bool) {
	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil || claims == nil {
		return nil, false
	}
	return claims, true
}

// Expiry returns the exp claim of raw. ok is false when the token cannot be
// decoded or carries no numeric exp.
func Expiry(raw string) (exp time.Time, ok bool) {
	claims, ok := Decode(raw)
	if !ok {
		return time.Time{}, false
	}
	nd, err := claims.GetExpirationTime()
	if err != nil || nd == nil {
		return time.Time{}, false
	}
	return nd.Time, true
}

// CheckExpiry classifies raw at instant now. The token is expired from
// exp*1000 ms onwards, so the boundary instant counts as expired. exp is
// compared as sent, without rounding to whole seconds.
func CheckExpiry(raw string, now time.Time) Status {
	if raw == "" {
		return StatusInvalid
	}
	claims, ok := Decode(raw)
	if !ok {
		return StatusInvalid
	}
	exp, ok := expSeconds(claims)
	if !ok {
		return StatusInvalid
	}
	if float64(now.UnixMilli()) >= exp*1000 {
		return StatusExpired
	}
	return StatusValid
}

func expSeconds(claims jwt.MapClaims) (float64, bool) {
	switch v := claims["exp"].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
