package provider

import (
	"fmt"
	"time"
)

// ErrProviderUnavailable reports a transient, usually network-shaped,
// failure. Retryable errors are retried by the dispatcher's background
// poller (spec.md §7); non-retryable ones surface immediately.
type ErrProviderUnavailable struct {
	Retryable bool
	Detail    string
}

func (e ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider: unavailable (retryable=%v): %s", e.Retryable, e.Detail)
}

// ErrProviderUnauthorized reports an authentication failure. It is
// fatal to the job; only a fresh register_provider call re-initialises.
type ErrProviderUnauthorized struct {
	Detail string
}

func (e ErrProviderUnauthorized) Error() string {
	return "provider: unauthorized: " + e.Detail
}

// ErrProviderThrottled reports rate limiting, with the server-suggested
// backoff the dispatcher should honor before retrying.
type ErrProviderThrottled struct {
	RetryAfter time.Duration
}

func (e ErrProviderThrottled) Error() string {
	return fmt.Sprintf("provider: throttled, retry after %s", e.RetryAfter)
}

// ErrUnsupported reports a job rejected by translate() or by the remote
// service itself (circuit too large, gate not realisable).
type ErrUnsupported struct {
	Reason string
}

func (e ErrUnsupported) Error() string {
	return "provider: unsupported: " + e.Reason
}

// ErrUnsupportedGate reports a single gate tag translate() could not
// realise against a device's capability set.
type ErrUnsupportedGate struct {
	Tag string
}

func (e ErrUnsupportedGate) Error() string {
	return "provider: unsupported gate: " + e.Tag
}

// ErrDeviceOffline reports that a device went offline after a job was
// already queued against it; the job fails rather than retrying.
type ErrDeviceOffline struct {
	Device string
}

func (e ErrDeviceOffline) Error() string {
	return "provider: device offline: " + e.Device
}

// ErrDeviceNotFound reports an unknown device name at submit/select time.
type ErrDeviceNotFound struct {
	Name string
}

func (e ErrDeviceNotFound) Error() string {
	return "provider: device not found: " + e.Name
}
