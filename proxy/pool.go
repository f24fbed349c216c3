// Package proxy keeps the ordered list of candidate proxies of a run and binds the first live one
// to the session. Candidates that fail the liveness probe are dropped for the rest of the run.
package proxy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ErrExhausted is returned by Activate when no candidate is left; the session is then direct.
var ErrExhausted = errors.New("no working proxy left")

// DefaultScheme is assumed for entries written as host:port.
const DefaultScheme = "socks5"

// Session is the part of the HTTP session the pool drives.
type Session interface {
	// UseProxy binds the proxy for subsequent requests; None means direct connection.
	UseProxy(proxy mo.Option[*url.URL])
	// Probe issues the liveness request through the currently bound proxy.
	Probe(ctx context.Context) error
}

// Pool is the candidate list and active binding. It is not safe for concurrent use.
type Pool struct {
	session    Session
	candidates []*url.URL
	active     mo.Option[*url.URL]
}

// NewPool returns a pool over candidates driving session. Nothing is bound until Activate.
func NewPool(session Session, candidates []*url.URL) *Pool {
	return &Pool{
		session:    session,
		candidates: append([]*url.URL(nil), candidates...),
		active:     mo.None[*url.URL](),
	}
}

// Normalize parses a proxy entry, adding the socks5 scheme when none is given.
func Normalize(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty proxy")
	}
	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("proxy %q has no host", raw)
	}
	return u, nil
}

// Parse reads newline separated proxies. Blank lines and lines starting with # are ignored,
// malformed entries are logged and skipped.
func Parse(r io.Reader) ([]*url.URL, error) {
	var out []*url.URL
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		u, err := Normalize(line)
		if err != nil {
			log.Errorf("skipping proxy %q: %s", line, err)
			continue
		}
		out = append(out, u)
	}
	return out, scanner.Err()
}

// LoadFile reads the proxy list at path. A missing file yields no candidates.
func LoadFile(path string) ([]*url.URL, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("%s not found, continuing without proxies", path)
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	proxies, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Infof("loaded %d proxies from %s", len(proxies), path)
	return proxies, nil
}

// Activate binds the first candidate that passes the liveness probe. Each failing candidate is
// removed, so with N dead candidates exactly N probes run. When none is left the session falls back
// to a direct connection and ErrExhausted is returned.
func (p *Pool) Activate(ctx context.Context) error {
	for len(p.candidates) > 0 {
		candidate := p.candidates[0]
		p.bind(mo.Some(candidate))

		err := p.session.Probe(ctx)
		if err == nil {
			log.Infof("using proxy %s", candidate.Redacted())
			return nil
		}
		if ctx.Err() != nil {
			p.Clear()
			return ctx.Err()
		}

		log.Errorf("proxy %s is not working: %s", candidate.Redacted(), err)
		p.candidates = p.candidates[1:]
	}

	log.Info("no working proxies left, continuing without proxy")
	p.Clear()
	return ErrExhausted
}

// Rotate drops the active proxy, which has just proven non-functional, and activates the next one.
func (p *Pool) Rotate(ctx context.Context) error {
	if active, ok := p.active.Get(); ok {
		p.candidates = lo.Reject(p.candidates, func(u *url.URL, _ int) bool { return u == active })
		log.Infof("dropping proxy %s", active.Redacted())
	}
	return p.Activate(ctx)
}

// Clear drops the active binding; candidates are kept.
func (p *Pool) Clear() {
	p.bind(mo.None[*url.URL]())
}

// Active returns the bound proxy, if any.
func (p *Pool) Active() mo.Option[*url.URL] {
	return p.active
}

// Len is the number of remaining candidates.
func (p *Pool) Len() int {
	return len(p.candidates)
}

func (p *Pool) bind(proxy mo.Option[*url.URL]) {
	p.active = proxy
	p.session.UseProxy(proxy)
}
