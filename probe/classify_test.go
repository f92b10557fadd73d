package probe

import (
	"context"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"syscall"
	"testing"
	"time"
)

func TestClassify_DNS(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "nxdomain.test", IsNotFound: true}

	classified := Classify("https://nxdomain.test", 5*time.Second, err)

	var dnsErr *DNSError
	if !errors.As(classified, &dnsErr) {
		t.Fatalf("Classify() = %T, want *DNSError", classified)
	}
	if dnsErr.Hostname != "nxdomain.test" {
		t.Errorf("Hostname = %q, want %q", dnsErr.Hostname, "nxdomain.test")
	}
}

func TestClassify_DNSBeforeTimeout(t *testing.T) {
	// A DNS failure that also reports Timeout() must classify as DNS, not
	// timeout.
	err := &net.DNSError{Err: "lookup timed out", Name: "slow.test", IsTimeout: true}

	classified := Classify("https://slow.test", 5*time.Second, err)

	var dnsErr *DNSError
	if !errors.As(classified, &dnsErr) {
		t.Fatalf("Classify() = %T, want *DNSError", classified)
	}
}

func TestClassify_TLS(t *testing.T) {
	err := x509.UnknownAuthorityError{}

	classified := Classify("https://selfsigned.test", 5*time.Second, err)

	var sslErr *SSLError
	if !errors.As(classified, &sslErr) {
		t.Fatalf("Classify() = %T, want *SSLError", classified)
	}
	if sslErr.Reason == "" {
		t.Error("Reason should not be empty")
	}
}

func TestClassify_Timeout(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"deadline exceeded", context.DeadlineExceeded},
		{"cancelled", context.Canceled},
		{"wrapped in url.Error", &url.Error{Op: "Get", URL: "https://slow.test", Err: context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify("https://slow.test", 3*time.Second, tt.err)

			var timeoutErr *TimeoutError
			if !errors.As(classified, &timeoutErr) {
				t.Fatalf("Classify() = %T, want *TimeoutError", classified)
			}
			if timeoutErr.Timeout != 3*time.Second {
				t.Errorf("Timeout = %v, want 3s", timeoutErr.Timeout)
			}
			if timeoutErr.Message != "health check timed out after 3s" {
				t.Errorf("Message = %q", timeoutErr.Message)
			}
		})
	}
}

func TestClassify_Connection(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"refused", syscall.ECONNREFUSED, "connection refused"},
		{"reset", syscall.ECONNRESET, "connection reset"},
		{"host unreachable", syscall.EHOSTUNREACH, "host unreachable"},
		{"network unreachable", syscall.ENETUNREACH, "network unreachable"},
		{"too many redirects", errTooManyRedirects, "too many redirects"},
		{"unclassifiable", errors.New("something odd happened"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := Classify("https://example.test", 5*time.Second, tt.err)

			var connErr *ConnectionError
			if !errors.As(classified, &connErr) {
				t.Fatalf("Classify() = %T, want *ConnectionError", classified)
			}
			if connErr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", connErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if got := Classify("https://example.test", time.Second, nil); got != nil {
		t.Errorf("Classify(nil) = %v, want nil", got)
	}
}

func TestHealthCheckError_Error(t *testing.T) {
	err := NewConnectionError("https://example.test", "connection refused")

	want := "connection failed: connection refused (URL: https://example.test)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  interface{ Error() string }
		want string
	}{
		{"timeout", NewTimeoutError("u", 5*time.Second), "health check timed out after 5s (URL: u)"},
		{"dns", NewDNSError("u", "host.test"), "DNS resolution failed for hostname: host.test (URL: u)"},
		{"ssl", NewSSLError("u", "certificate expired"), "SSL verification failed: certificate expired (URL: u)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
