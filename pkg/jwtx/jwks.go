package jwtx

import (
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"math/big"
)

// JWK is a public key in JSON Web Key format (RFC 7517). Cognito pools only
// publish RSA signing keys, so that is all we model.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`

	// RSA modulus and exponent (base64url)
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`
}

// JWKS is a JSON Web Key Set (RFC 7517).
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// PublicKey converts the JWK into a usable RSA verification key.
// Bad key material is a structural error, distinct from a mere signature
// mismatch during verification.
func (j JWK) PublicKey() (*rsa.PublicKey, error) {
	if j.Kty != "RSA" {
		return nil, errors.New("jwtx: unsupported kty " + j.Kty)
	}

	nb, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, errors.New("jwtx: invalid RSA modulus encoding")
	}
	eb, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, errors.New("jwtx: invalid RSA exponent encoding")
	}

	n := new(big.Int).SetBytes(nb)
	e := new(big.Int).SetBytes(eb).Int64()
	if n.Sign() == 0 || e == 0 {
		return nil, errors.New("jwtx: degenerate RSA key material")
	}
	return &rsa.PublicKey{N: n, E: int(e)}, nil
}
