package probe

import (
	"fmt"
	"time"
)

// HealthCheckError is the base type for probe failures. It is an internal
// signal: the Checker converts every variant into a monitor.Result and never
// lets one escape to callers.
type HealthCheckError struct {
	// Message is the human-readable description used for Result.ErrorMessage.
	Message string

	// URL is the target URL the probe was issued against.
	URL string
}

// Error implements the error interface.
func (e *HealthCheckError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s (URL: %s)", e.Message, e.URL)
	}
	return e.Message
}

// TimeoutError indicates the probe deadline elapsed before any response.
type TimeoutError struct {
	HealthCheckError

	// Timeout is the configured per-probe deadline.
	Timeout time.Duration
}

// NewTimeoutError creates a TimeoutError for the given URL and deadline.
func NewTimeoutError(url string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		HealthCheckError: HealthCheckError{
			Message: fmt.Sprintf("health check timed out after %s", timeout),
			URL:     url,
		},
		Timeout: timeout,
	}
}

// ConnectionError indicates the connection to the endpoint failed.
type ConnectionError struct {
	HealthCheckError

	// Reason is a short description of the connection failure.
	Reason string
}

// NewConnectionError creates a ConnectionError with a short reason.
func NewConnectionError(url, reason string) *ConnectionError {
	return &ConnectionError{
		HealthCheckError: HealthCheckError{
			Message: fmt.Sprintf("connection failed: %s", reason),
			URL:     url,
		},
		Reason: reason,
	}
}

// SSLError indicates TLS handshake or certificate verification failed.
type SSLError struct {
	HealthCheckError

	// Reason is a short description of the TLS failure.
	Reason string
}

// NewSSLError creates an SSLError with a short reason.
func NewSSLError(url, reason string) *SSLError {
	return &SSLError{
		HealthCheckError: HealthCheckError{
			Message: fmt.Sprintf("SSL verification failed: %s", reason),
			URL:     url,
		},
		Reason: reason,
	}
}

// DNSError indicates name resolution failed for the target's hostname.
type DNSError struct {
	HealthCheckError

	// Hostname is the name that failed to resolve.
	Hostname string
}

// NewDNSError creates a DNSError for the given hostname.
func NewDNSError(url, hostname string) *DNSError {
	return &DNSError{
		HealthCheckError: HealthCheckError{
			Message: fmt.Sprintf("DNS resolution failed for hostname: %s", hostname),
			URL:     url,
		},
		Hostname: hostname,
	}
}
