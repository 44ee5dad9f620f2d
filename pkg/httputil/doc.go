// Package httputil provides the retry-wrapped HTTP transport used by every
// outbound call in sourcescout.
//
// # Overview
//
//   - [Retry]: fixed-delay retry of a fallible operation
//   - [Transport]: GET/HEAD/POST with the shared [RetryPolicy]
//
// # Retry
//
// Every transport-level failure (connection refused or reset, DNS failure,
// timeout) is retried identically: wait [RetryPolicy.Delay], try again, up to
// [RetryPolicy.MaxAttempts] attempts in total. There is no distinction between
// retryable and non-retryable failure classes.
//
// Any HTTP response, including 4xx and 5xx, counts as a successful transport
// round trip. Status handling is the caller's job:
//
//	resp, err := t.Get(ctx, url)
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeTransportExhausted)
//	}
//	defer resp.Body.Close()
//	if resp.StatusCode >= 300 { ... }
//
// # Configuration
//
// The policy is built from the [api] section of the config file:
//
//   - retry: attempts per request
//   - retry_delay: seconds between attempts
//   - time_out: per-request timeout in seconds
//   - check_retry: attempts per liveness probe (see [Transport.WithAttempts])
package httputil
