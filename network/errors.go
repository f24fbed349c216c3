package network

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrFetchFailed matches every terminal fetch failure.
var ErrFetchFailed = errors.New("fetch failed")

// FetchError is returned once every attempt for a URL has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() []error { return []error{ErrFetchFailed, e.Err} }

// StatusError is a non-2xx response. It is terminal: anti-bot pages don't go away on retry.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrFetchFailed }

// ProxyError is a failure to reach the destination through the bound SOCKS proxy.
type ProxyError struct {
	Proxy string
	Err   error
}

func (e *ProxyError) Error() string {
	return fmt.Sprintf("socks connection via %s failed: %v", e.Proxy, e.Err)
}

func (e *ProxyError) Unwrap() error { return e.Err }

// IsProxyFailure reports whether err looks like a dead proxy: a SOCKS dial failure
// or a failed CONNECT tunnel through an HTTP proxy.
func IsProxyFailure(err error) bool {
	if err == nil {
		return false
	}

	var perr *ProxyError
	if errors.As(err, &perr) {
		return true
	}

	var operr *net.OpError
	if errors.As(err, &operr) && operr.Op == "proxyconnect" {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "proxyconnect") || strings.Contains(msg, "socks connect")
}
