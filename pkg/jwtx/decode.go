package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedToken   = errors.New("jwtx: malformed token")
	ErrMalformedPayload = errors.New("jwtx: malformed payload")
)

// Header is the decoded first segment of a compact JWT. Only the fields the
// verifier needs are modeled.
type Header struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

// Decode splits a compact token and parses its payload into Claims. It does
// NOT verify the signature; Verifier does that. Pure function, no I/O.
func Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var c Claims
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &c, nil
}

// DecodeHeader parses the header segment of a compact token.
func DecodeHeader(token string) (*Header, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	raw, err := decodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return &h, nil
}

// decodeSegment is base64url with tolerance for missing padding, which some
// issuers strip and some keep.
func decodeSegment(seg string) ([]byte, error) {
	if n := len(seg) % 4; n != 0 {
		seg += strings.Repeat("=", 4-n)
	}
	return base64.URLEncoding.DecodeString(seg)
}

// decodeSegmentStrict additionally rejects non-zero trailing bits, so two
// distinct signature segments can never alias to the same signature bytes.
func decodeSegmentStrict(seg string) ([]byte, error) {
	if n := len(seg) % 4; n != 0 {
		seg += strings.Repeat("=", 4-n)
	}
	return base64.URLEncoding.Strict().DecodeString(seg)
}
