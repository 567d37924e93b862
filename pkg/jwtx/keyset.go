package jwtx

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var (
	ErrUnknownKID        = errors.New("jwtx: unknown kid")
	ErrKeySetUnavailable = errors.New("jwtx: key set unavailable")
)

// DefaultKeySetTTL bounds how long a fetched JWKS snapshot is trusted.
const DefaultKeySetTTL = time.Hour

// RemoteKeySet fetches and caches an issuer's published JWKS. The snapshot
// is replaced wholesale on every fetch, so concurrent readers either see the
// previous complete set or the new one, never a partial state. A kid miss in
// a fresh snapshot triggers exactly one refetch (covers key rotation); a
// second miss fails closed.
type RemoteKeySet struct {
	url    string
	client *http.Client
	ttl    time.Duration
	now    func() time.Time

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewRemoteKeySet builds a key set for the JWKS document at jwksURL.
func NewRemoteKeySet(jwksURL string) *RemoteKeySet {
	return &RemoteKeySet{
		url:    jwksURL,
		client: &http.Client{Timeout: 10 * time.Second},
		ttl:    DefaultKeySetTTL,
		now:    time.Now,
	}
}

// Key returns the verification key for kid, fetching or refreshing the JWKS
// as needed. Unresolvable kids return ErrUnknownKID; transport or HTTP
// failures return ErrKeySetUnavailable.
func (ks *RemoteKeySet) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if pub, ok := ks.cached(kid); ok {
		return pub, nil
	}

	// One fetch attempt, then fail closed.
	if err := ks.fetch(ctx); err != nil {
		return nil, err
	}

	ks.mu.RLock()
	defer ks.mu.RUnlock()
	if pub, ok := ks.keys[kid]; ok {
		return pub, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
}

// cached returns the key for kid only while the snapshot is inside its TTL.
func (ks *RemoteKeySet) cached(kid string) (*rsa.PublicKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if ks.fetchedAt.IsZero() || ks.now().Sub(ks.fetchedAt) >= ks.ttl {
		return nil, false
	}
	pub, ok := ks.keys[kid]
	return pub, ok
}

// fetch replaces the cached snapshot with a freshly downloaded JWKS.
func (ks *RemoteKeySet) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ks.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ks.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: http %d", ErrKeySetUnavailable, resp.StatusCode)
	}

	var doc JWKS
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, j := range doc.Keys {
		pub, err := j.PublicKey()
		if err != nil {
			return fmt.Errorf("%w: kid %q: %v", ErrKeySetUnavailable, j.Kid, err)
		}
		keys[j.Kid] = pub
	}

	ks.mu.Lock()
	ks.keys = keys
	ks.fetchedAt = ks.now()
	ks.mu.Unlock()
	return nil
}
