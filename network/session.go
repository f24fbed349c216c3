// Package network is the only place the application talks to the network. It owns the HTTP session
// (headers, cookies, timeout, proxy binding) and the retrying fetcher every component goes through.
package network

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/jutdl/jutdl/constant"
	utls "github.com/refraction-networking/utls"
	"github.com/samber/mo"
	xproxy "golang.org/x/net/proxy"
)

// Options configure a Session.
type Options struct {
	Timeout     time.Duration
	UserAgent   string
	Fingerprint bool
	Jar         http.CookieJar
	ProbeURL    string
}

// Session is the process-wide HTTP state: one transport, a page client bounded by Timeout,
// a streaming client bounded only by the response header timeout, and the current proxy.
// It is not safe for concurrent use.
type Session struct {
	opts      Options
	transport *http.Transport
	page      *http.Client
	stream    *http.Client
	proxy     mo.Option[*url.URL]
}

// NewSession builds a direct session.
func NewSession(opts Options) *Session {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = constant.UserAgent
	}
	if opts.ProbeURL == "" {
		opts.ProbeURL = constant.ProbeURL
	}

	s := &Session{opts: opts, proxy: mo.None[*url.URL]()}

	s.transport = &http.Transport{
		Proxy:                 s.httpProxy,
		DialContext:           s.dial,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   opts.Timeout,
		ResponseHeaderTimeout: opts.Timeout,
		ExpectContinueTimeout: time.Second,
	}
	if opts.Fingerprint {
		s.transport.DialTLSContext = s.dialTLS
	}

	s.page = &http.Client{Transport: s.transport, Jar: opts.Jar, Timeout: opts.Timeout}
	s.stream = &http.Client{Transport: s.transport, Jar: opts.Jar}
	return s
}

// UseProxy binds proxy for subsequent requests. Idle connections made through the previous
// binding are dropped so nothing leaks past a rotation.
func (s *Session) UseProxy(proxy mo.Option[*url.URL]) {
	s.proxy = proxy
	s.transport.CloseIdleConnections()
}

// Proxy returns the bound proxy, if any.
func (s *Session) Proxy() mo.Option[*url.URL] {
	return s.proxy
}

// Probe requests the probe URL through the current binding. Any HTTP response counts as alive.
func (s *Session) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	resp, err := s.Get(ctx, s.opts.ProbeURL, false)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// Get performs one GET. Streaming responses are not bounded by the page timeout.
func (s *Session) Get(ctx context.Context, rawURL string, stream bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.8,en-US;q=0.5,en;q=0.3")

	if stream {
		return s.stream.Do(req)
	}
	return s.page.Do(req)
}

func isSocks(u *url.URL) bool {
	return u.Scheme == "socks5" || u.Scheme == "socks5h"
}

// httpProxy hands HTTP(S) proxies to the transport; SOCKS proxies are dialed in dial.
func (s *Session) httpProxy(*http.Request) (*url.URL, error) {
	if p, ok := s.proxy.Get(); ok && !isSocks(p) {
		return p, nil
	}
	return nil, nil
}

func (s *Session) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	direct := &net.Dialer{Timeout: s.opts.Timeout, KeepAlive: 30 * time.Second}

	p, ok := s.proxy.Get()
	if !ok || !isSocks(p) {
		return direct.DialContext(ctx, network, addr)
	}

	d, err := xproxy.FromURL(p, direct)
	if err != nil {
		return nil, &ProxyError{Proxy: p.Redacted(), Err: err}
	}
	cd, ok := d.(xproxy.ContextDialer)
	if !ok {
		return nil, &ProxyError{Proxy: p.Redacted(), Err: fmt.Errorf("%s dialer does not support contexts", p.Scheme)}
	}

	conn, err := cd.DialContext(ctx, network, addr)
	if err != nil {
		return nil, &ProxyError{Proxy: p.Redacted(), Err: err}
	}
	return conn, nil
}

// dialTLS performs the TLS handshake with a Chrome ClientHello. ALPN is narrowed to http/1.1
// because the transport speaks HTTP/1.1 over custom TLS connections.
func (s *Session) dialTLS(ctx context.Context, network, addr string) (net.Conn, error) {
	conn, err := s.dial(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls spec: %w", err)
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
		}
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls preset: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tlsConn, nil
}
