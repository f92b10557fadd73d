package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"os"
	"syscall"
	"time"
)

// errTooManyRedirects is returned by the checker's redirect policy when the
// redirect cap is exceeded.
var errTooManyRedirects = errors.New("probe: too many redirects")

// Classify maps a raw transport failure to exactly one domain error kind.
//
// Priority order: DNS resolution failures, then TLS/certificate failures,
// then elapsed deadlines, then known connection-level failures, then a
// ConnectionError with reason "unknown" for everything else. TLS is checked
// before the deadline so a certificate failure inside a timed-out handshake
// reports as an SSLError.
func Classify(rawURL string, timeout time.Duration, err error) error {
	if err == nil {
		return nil
	}

	// Strip the url.Error wrapper the http client adds; typed checks below
	// use errors.As/Is and would see through it anyway, but the unwrapped
	// error gives cleaner reasons.
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewDNSError(rawURL, dnsErr.Name)
	}

	if reason, ok := tlsFailureReason(err); ok {
		return NewSSLError(rawURL, reason)
	}

	if isTimeout(err) {
		return NewTimeoutError(rawURL, timeout)
	}

	if reason, ok := connectionFailureReason(err); ok {
		return NewConnectionError(rawURL, reason)
	}

	return NewConnectionError(rawURL, "unknown")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func tlsFailureReason(err error) (string, bool) {
	var certVerify *tls.CertificateVerificationError
	if errors.As(err, &certVerify) {
		return certVerify.Err.Error(), true
	}

	var recordHeader tls.RecordHeaderError
	if errors.As(err, &recordHeader) {
		return recordHeader.Msg, true
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return unknownAuthority.Error(), true
	}

	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certInvalid) {
		return certInvalid.Error(), true
	}

	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return hostname.Error(), true
	}

	return "", false
}

func connectionFailureReason(err error) (string, bool) {
	switch {
	case errors.Is(err, errTooManyRedirects):
		return "too many redirects", true
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused", true
	case errors.Is(err, syscall.ECONNRESET):
		return "connection reset", true
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "host unreachable", true
	case errors.Is(err, syscall.ENETUNREACH):
		return "network unreachable", true
	case errors.Is(err, syscall.EPIPE):
		return "broken pipe", true
	}
	return "", false
}
