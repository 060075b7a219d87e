package gemini

import (
	"context"
	"sync"
	"time"
)

// CreateFunc provisions a fresh remote context and reports its handle and
// expiry. It is called at most once per expiry window.
type CreateFunc func(ctx context.Context) (name string, expires time.Time, err error)

// ContextCache memoizes one remote context handle for a bounded window. It is
// strictly best-effort: a creation failure or an expired handle just means
// the caller proceeds without a handle. Nothing downstream may depend on it
// for correctness.
type ContextCache struct {
	mu      sync.Mutex
	create  CreateFunc
	name    string
	expires time.Time

	// now is swappable for tests.
	now func() time.Time
}

func NewContextCache(create CreateFunc) *ContextCache {
	return &ContextCache{create: create, now: time.Now}
}

// GetOrCreate returns the cached handle, creating a new one when the cached
// handle is missing or expired. ok=false means generate without a handle.
func (cc *ContextCache) GetOrCreate(ctx context.Context) (string, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.name != "" && cc.now().Before(cc.expires) {
		return cc.name, true
	}

	cc.name = ""
	if cc.create == nil {
		return "", false
	}
	name, expires, err := cc.create(ctx)
	if err != nil || name == "" {
		return "", false
	}
	cc.name = name
	cc.expires = expires
	return cc.name, true
}

// Invalidate drops the cached handle, forcing re-creation on next use. Called
// when the remote side rejects a handle it previously issued.
func (cc *ContextCache) Invalidate() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.name = ""
	cc.expires = time.Time{}
}
