package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakePool struct {
	session   *Session
	rotations int
	cleared   int
	next      []*url.URL
}

func (p *fakePool) Rotate(context.Context) error {
	p.rotations++
	if len(p.next) == 0 {
		p.session.UseProxy(mo.None[*url.URL]())
		return errors.New("exhausted")
	}
	p.session.UseProxy(mo.Some(p.next[0]))
	p.next = p.next[1:]
	return nil
}

func (p *fakePool) Clear() {
	p.cleared++
	p.session.UseProxy(mo.None[*url.URL]())
}

// deadSocks is a SOCKS endpoint nothing listens on.
var deadSocks = &url.URL{Scheme: "socks5", Host: "127.0.0.1:1"}

func newTestFetcher(server *httptest.Server) (*Fetcher, *Session, *fakePool) {
	session := NewSession(Options{Timeout: 2 * time.Second, ProbeURL: server.URL})
	pool := &fakePool{session: session}
	f := NewFetcher(session, pool)
	f.Backoff = 0
	return f, session, pool
}

func TestFetcher(t *testing.T) {
	ctx := context.Background()

	Convey("Given a healthy server", t, func() {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path == "/missing" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprintf(w, "ua=%s", r.UserAgent())
		}))
		defer server.Close()

		f, _, _ := newTestFetcher(server)

		Convey("Page returns the body with the session headers", func() {
			body, err := f.Page(ctx, server.URL)
			So(err, ShouldBeNil)
			So(string(body), ShouldStartWith, "ua=Mozilla/5.0")
			So(hits.Load(), ShouldEqual, 1)
		})

		Convey("A non-2xx status is terminal and not retried", func() {
			_, err := f.Fetch(ctx, server.URL+"/missing")
			var serr *StatusError
			So(errors.As(err, &serr), ShouldBeTrue)
			So(serr.Code, ShouldEqual, http.StatusNotFound)
			So(errors.Is(err, ErrFetchFailed), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a server that drops the first connections", t, func() {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				hj, _ := w.(http.Hijacker)
				conn, _, _ := hj.Hijack()
				conn.Close()
				return
			}
			fmt.Fprint(w, "ok")
		}))
		defer server.Close()

		f, _, _ := newTestFetcher(server)

		Convey("The third attempt succeeds", func() {
			body, err := f.Page(ctx, server.URL)
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "ok")
			So(hits.Load(), ShouldEqual, 3)
		})
	})

	Convey("Given an unreachable host", t, func() {
		server := httptest.NewServer(http.NotFoundHandler())
		f, _, pool := newTestFetcher(server)
		addr := server.URL
		server.Close()

		Convey("Every attempt fails and the last error is returned", func() {
			_, err := f.Fetch(ctx, addr)
			var ferr *FetchError
			So(errors.As(err, &ferr), ShouldBeTrue)
			So(ferr.Attempts, ShouldEqual, MaxAttempts)
			So(errors.Is(err, ErrFetchFailed), ShouldBeTrue)
			So(pool.rotations, ShouldEqual, 0)
		})
	})

	Convey("Given a dead proxy", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "direct")
		}))
		defer server.Close()

		f, session, pool := newTestFetcher(server)
		session.UseProxy(mo.Some(deadSocks))

		Convey("The failure is classified as a proxy failure", func() {
			_, err := session.Get(ctx, server.URL, false)
			So(IsProxyFailure(err), ShouldBeTrue)
		})

		Convey("Rotation that exhausts the pool falls back to a direct connection", func() {
			body, err := f.Page(ctx, server.URL)
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "direct")
			So(pool.rotations, ShouldEqual, 1)
			So(f.Proxied(), ShouldBeFalse)
		})

		Convey("Repeated dead proxies end in a final direct attempt", func() {
			pool.next = []*url.URL{deadSocks, deadSocks}
			body, err := f.Page(ctx, server.URL)
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "direct")
			So(pool.rotations, ShouldEqual, 3)
			So(pool.cleared, ShouldEqual, 1)
		})
	})

	Convey("Given a cancelled context", t, func() {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()
		f, _, _ := newTestFetcher(server)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		Convey("No retry happens", func() {
			_, err := f.Fetch(cctx, server.URL)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestIsProxyFailure(t *testing.T) {
	Convey("IsProxyFailure", t, func() {
		So(IsProxyFailure(nil), ShouldBeFalse)
		So(IsProxyFailure(errors.New("connection reset by peer")), ShouldBeFalse)
		So(IsProxyFailure(&ProxyError{Proxy: "socks5://x", Err: errors.New("refused")}), ShouldBeTrue)
		So(IsProxyFailure(&url.Error{Op: "Get", URL: "https://jut.su", Err: errors.New("proxyconnect tcp: dial tcp: refused")}), ShouldBeTrue)
	})
}

func TestProbe(t *testing.T) {
	Convey("Probe accepts any HTTP response", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		session := NewSession(Options{Timeout: time.Second, ProbeURL: server.URL})
		So(session.Probe(context.Background()), ShouldBeNil)

		session.UseProxy(mo.Some(deadSocks))
		So(session.Probe(context.Background()), ShouldNotBeNil)
	})
}

func TestCookies(t *testing.T) {
	Convey("Given a Netscape cookie file", t, func() {
		file := strings.Join([]string{
			"# Netscape HTTP Cookie File",
			"",
			".jut.su\tTRUE\t/\tTRUE\t1999999999\tcf_clearance\tabc",
			"#HttpOnly_jut.su\tFALSE\t/\tFALSE\t0\tPHPSESSID\tsess",
			"broken line",
		}, "\n")

		Convey("Valid lines are parsed and malformed ones skipped", func() {
			cookies, err := ParseCookies(strings.NewReader(file))
			So(err, ShouldBeNil)
			So(cookies, ShouldHaveLength, 2)
			So(cookies[0].Name, ShouldEqual, "cf_clearance")
			So(cookies[0].Secure, ShouldBeTrue)
			So(cookies[1].HttpOnly, ShouldBeTrue)
		})

		Convey("The jar sends them to the site", func() {
			cookies, _ := ParseCookies(strings.NewReader(file))
			jar, err := NewJar(cookies)
			So(err, ShouldBeNil)

			sent := jar.Cookies(&url.URL{Scheme: "https", Host: "jut.su", Path: "/naruto/"})
			So(sent, ShouldHaveLength, 2)
		})

		Convey("A missing file yields an empty jar", func() {
			filesystem.SetMemMapFs()
			jar, err := LoadCookies("cookies.txt")
			So(err, ShouldBeNil)
			So(jar.Cookies(&url.URL{Scheme: "https", Host: "jut.su"}), ShouldBeEmpty)
		})

		Convey("An existing file is loaded", func() {
			filesystem.SetMemMapFs()
			So(filesystem.API().WriteFile("cookies.txt", []byte(file), 0o644), ShouldBeNil)
			jar, err := LoadCookies("cookies.txt")
			So(err, ShouldBeNil)
			So(jar.Cookies(&url.URL{Scheme: "https", Host: "jut.su"}), ShouldHaveLength, 2)
		})
	})
}
