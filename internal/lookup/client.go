package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds every provider call. Timeouts are treated the same
// as provider failures: the pool degrades, content assembly continues.
const defaultTimeout = 10 * time.Second

// newHTTPClient returns the shared client configuration for lookup
// providers.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// doJSON performs the request and decodes a JSON body into out. Non-2xx
// responses are classified: quota and rate-limit answers become
// ErrQuotaExceeded so the pool rotates credentials, everything else is a
// plain provider error.
func doJSON(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("lookup request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read lookup response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode lookup response: %w", err)
	}

	return nil
}

// classifyStatus maps a provider error response to the pool's taxonomy.
// 429 always means the credential is rate-limited; 403 counts as quota
// exhaustion only when the body says so, because providers also use 403 for
// plain authorization failures.
func classifyStatus(status int, body string) error {
	lower := strings.ToLower(body)

	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrQuotaExceeded, status)
	}

	if status == http.StatusForbidden &&
		(strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") || strings.Contains(lower, "ratelimit")) {
		return fmt.Errorf("%w: status %d", ErrQuotaExceeded, status)
	}

	return fmt.Errorf("lookup provider returned status %d", status)
}
