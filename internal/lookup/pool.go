package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// CooldownPeriod is how long a credential is deprioritized after a quota
// failure. A success on the credential resets the cooldown early, since a
// working call proves the key is usable again.
const CooldownPeriod = time.Hour

// Credential is one API key with its cooldown state. The zero CooldownUntil
// means the credential is available.
type Credential struct {
	Key           string
	CooldownUntil time.Time
}

// Available reports whether the credential is out of cooldown at the given
// time.
func (c *Credential) Available(now time.Time) bool {
	return !c.CooldownUntil.After(now)
}

// Pool owns a set of credentials for one lookup category and hands them out
// with cooldown-aware selection. Construct one pool per category at process
// start and inject it into the category client; pools are safe for
// concurrent use.
type Pool struct {
	mu     sync.Mutex
	creds  []*Credential
	logger *slog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// NewPool creates a pool over the given API keys. Empty keys are dropped.
// If logger is nil, a default logger is used.
func NewPool(keys []string, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	creds := make([]*Credential, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		creds = append(creds, &Credential{Key: k})
	}

	return &Pool{
		creds:  creds,
		logger: logger.With(slog.String("component", "lookup_pool")),
		now:    time.Now,
	}
}

// Size returns the number of configured credentials.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.creds)
}

// selectCredential returns the first credential whose cooldown has elapsed.
// When every credential is cooling it returns the one that recovers soonest,
// so callers can still make a best-effort attempt. Returns nil only when no
// credentials are configured. The second return value is the credential's
// index, used to bound rotation.
func (p *Pool) selectCredential(now time.Time, tried map[int]bool) (*Credential, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var soonest *Credential
	soonestIdx := -1

	for i, c := range p.creds {
		if tried[i] {
			continue
		}
		if c.Available(now) {
			return c, i
		}
		if soonest == nil || c.CooldownUntil.Before(soonest.CooldownUntil) {
			soonest = c
			soonestIdx = i
		}
	}

	return soonest, soonestIdx
}

// markCooldown puts the credential into cooldown after a quota failure.
func (p *Pool) markCooldown(c *Credential, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.CooldownUntil = now.Add(CooldownPeriod)
	p.logger.Warn("credential entered cooldown",
		slog.Time("cooldown_until", c.CooldownUntil))
}

// markSuccess resets the credential's cooldown. A later success proves the
// key recovered even before the cooldown window elapsed.
func (p *Pool) markSuccess(c *Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.CooldownUntil = time.Time{}
}

// Execute runs fn with a pool credential, rotating to the next credential on
// quota-classified failures. Rotation is bounded by the number of distinct
// credentials. Non-quota failures are returned to the caller immediately;
// they say nothing about the credential itself.
func Execute[T any](ctx context.Context, p *Pool, fn func(ctx context.Context, key string) (T, error)) (T, error) {
	var zero T

	if p.Size() == 0 {
		return zero, ErrNoCredentials
	}

	tried := make(map[int]bool)
	var lastErr error

	for len(tried) < p.Size() {
		now := p.now()
		cred, idx := p.selectCredential(now, tried)
		if cred == nil {
			break
		}
		tried[idx] = true

		result, err := fn(ctx, cred.Key)
		if err == nil {
			p.markSuccess(cred)
			return result, nil
		}

		if !errors.Is(err, ErrQuotaExceeded) {
			return zero, err
		}

		p.markCooldown(cred, now)
		lastErr = err
		p.logger.Info("rotating to next credential after quota failure",
			slog.Int("tried", len(tried)),
			slog.Int("total", p.Size()))
	}

	return zero, fmt.Errorf("%w: %v", ErrAllCredentialsCooling, lastErr)
}
