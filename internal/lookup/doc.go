// Package lookup supplies results from quota-limited external lookup
// providers (video, encyclopedia, article search) with resilience to
// per-credential quota exhaustion. A Pool tracks a cooldown per credential
// and rotates away from exhausted keys; when every credential is cooling the
// callers degrade to constructed search links instead of failing, because a
// missing supplementary link must never block the primary learning content.
package lookup
