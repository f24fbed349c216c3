package network

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/jutdl/jutdl/log"
)

// MaxAttempts bounds the attempts of a single fetch, not counting the direct fallback.
const MaxAttempts = 3

// Rotator is the proxy pool as seen by the fetcher.
type Rotator interface {
	Rotate(ctx context.Context) error
	Clear()
}

// Fetcher retries transport errors and rotates proxies on proxy failures.
type Fetcher struct {
	session *Session
	pool    Rotator

	// Backoff is slept between attempts after non-proxy errors.
	Backoff time.Duration
}

// NewFetcher wires the session with its proxy pool.
func NewFetcher(session *Session, pool Rotator) *Fetcher {
	return &Fetcher{session: session, pool: pool, Backoff: time.Second}
}

// Fetch GETs url with the page timeout. The caller closes the body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*http.Response, error) {
	return f.do(ctx, url, false)
}

// Stream GETs url for incremental reading. The caller closes the body.
func (f *Fetcher) Stream(ctx context.Context, url string) (*http.Response, error) {
	return f.do(ctx, url, true)
}

// Page GETs url and reads the whole body.
func (f *Fetcher) Page(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Rotate switches to the next working proxy. An error means the session is now direct.
func (f *Fetcher) Rotate(ctx context.Context) error {
	return f.pool.Rotate(ctx)
}

// Proxied reports whether requests currently go through a proxy.
func (f *Fetcher) Proxied() bool {
	return f.session.Proxy().IsPresent()
}

func (f *Fetcher) do(ctx context.Context, url string, stream bool) (*http.Response, error) {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		attempts++
		resp, err := f.session.Get(ctx, url, stream)
		if err == nil {
			return checkStatus(url, resp)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		log.Errorf("request error (%d/%d): %s", attempt, MaxAttempts, err)

		if IsProxyFailure(err) {
			log.Info("problem with proxy, trying another one")
			rerr := f.pool.Rotate(ctx)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if rerr != nil && attempt == MaxAttempts {
				log.Info("trying without proxy")
				f.pool.Clear()

				attempts++
				resp, err := f.session.Get(ctx, url, stream)
				if err == nil {
					return checkStatus(url, resp)
				}
				lastErr = err
			}
			continue
		}

		if attempt < MaxAttempts {
			if err := sleep(ctx, f.Backoff); err != nil {
				return nil, err
			}
		}
	}

	return nil, &FetchError{URL: url, Attempts: attempts, Err: lastErr}
}

func checkStatus(url string, resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
	return nil, &StatusError{URL: url, Code: resp.StatusCode}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

