// Package remote holds the HTTP plumbing shared by the embedding and chat
// adapters: a JSON client, the rate limiter every request waits on, and the
// mapping from HTTP outcomes to domain errors.
//
// Error classification:
//   - http.Client.Do and body read failures wrap domain.ErrTransport
//   - 503 wraps domain.ErrServiceUnavailable
//   - 429 wraps domain.ErrRateLimited and opens a backoff window on the limiter
//   - any other non-2xx status is returned as *StatusError
package remote
