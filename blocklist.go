package jwt

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrBlocked indicates that the token has not yet expired
// but was revoked by the server's Blocklist.
var ErrBlocked = errors.New("jwt: token is blocked")

// Blocklist is an in-memory storage of tokens that should be
// immediately rejected by the server-side even though their signature
// and claims are otherwise valid, e.g. after a forced logout.
// It completes the TokenValidator interface.
type Blocklist struct {
	entries map[string]int64 // key = token | value = expiration unix seconds (to remove expired).
	mu      sync.RWMutex
}

var _ TokenValidator = (*Blocklist)(nil)

// NewBlocklist returns a new in-memory token Blocklist whose expired
// entries are garbage-collected every "gcEvery" duration; a good value
// matches the usual token max age. A duration of zero disables the GC
// goroutine.
func NewBlocklist(gcEvery time.Duration) *Blocklist {
	return NewBlocklistContext(context.Background(), gcEvery)
}

// NewBlocklistContext is like NewBlocklist but the given context
// cancels the background GC goroutine.
func NewBlocklistContext(ctx context.Context, gcEvery time.Duration) *Blocklist {
	b := &Blocklist{
		entries: make(map[string]int64),
	}

	if gcEvery > 0 {
		go b.runGC(ctx, gcEvery)
	}

	return b
}

// ValidateToken completes the TokenValidator interface.
// Returns ErrBlocked when the "token" was revoked by this Blocklist.
func (b *Blocklist) ValidateToken(token []byte, _ Claims, err error) error {
	if err != nil {
		if errors.Is(err, ErrExpired) {
			// Expired tokens cannot come back; no reason to keep them.
			b.Del(token)
		}

		return err // respect the previous error.
	}

	if b.Has(token) {
		return ErrBlocked
	}

	return nil
}

// InvalidateToken revokes a verified token until its own "expiry".
// The next Verify call that includes this Blocklist fails with
// ErrBlocked even though the signature still checks out.
func (b *Blocklist) InvalidateToken(token []byte, expiry int64) {
	b.mu.Lock()
	// The key must be copied: a zero-copy conversion would alias the
	// caller's buffer and a later reuse of it would corrupt the set.
	// The read paths (Has, Del) keep the zero-copy lookup.
	b.entries[string(token)] = expiry
	b.mu.Unlock()
}

// Del removes a "token" from the blocklist.
func (b *Blocklist) Del(token []byte) {
	b.mu.Lock()
	delete(b.entries, BytesToString(token))
	b.mu.Unlock()
}

// Count returns the total amount of blocked tokens.
func (b *Blocklist) Count() int {
	b.mu.RLock()
	n := len(b.entries)
	b.mu.RUnlock()

	return n
}

// Has reports whether the given "token" is blocked.
func (b *Blocklist) Has(token []byte) bool {
	if len(token) == 0 {
		return false
	}

	b.mu.RLock()
	_, ok := b.entries[BytesToString(token)]
	b.mu.RUnlock()

	return ok
}

// GC iterates over all entries and removes expired tokens,
// reporting how many were dropped. It is called automatically when the
// Blocklist was built with a positive gcEvery duration.
func (b *Blocklist) GC() int {
	now := Clock().Round(time.Second).Unix()
	var markedForDeletion []string

	b.mu.RLock()
	for token, expiry := range b.entries {
		if now > expiry {
			markedForDeletion = append(markedForDeletion, token)
		}
	}
	b.mu.RUnlock()

	if n := len(markedForDeletion); n > 0 {
		b.mu.Lock()
		for _, token := range markedForDeletion {
			delete(b.entries, token)
		}
		b.mu.Unlock()

		return n
	}

	return 0
}

func (b *Blocklist) runGC(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)

	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			b.GC()
		}
	}
}
