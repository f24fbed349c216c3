package network

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/log"
)

const httpOnlyPrefix = "#HttpOnly_"

// ParseCookies reads a Netscape cookie file: domain, flag, path, secure, expiry, name, value,
// separated by tabs. Comments and malformed lines are skipped. Expiry is ignored so that
// exported anti-bot clearance cookies are sent as long as the site accepts them.
func ParseCookies(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		line = strings.TrimPrefix(line, httpOnlyPrefix)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			log.Debugf("skipping malformed cookie line %q", line)
			continue
		}

		cookies = append(cookies, &http.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "true"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		})
	}

	return cookies, scanner.Err()
}

// NewJar stores cookies in a fresh jar, each under its own domain.
func NewJar(cookies []*http.Cookie) (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	for _, c := range cookies {
		scheme := "http"
		if c.Secure {
			scheme = "https"
		}
		host := strings.TrimPrefix(c.Domain, ".")
		jar.SetCookies(&url.URL{Scheme: scheme, Host: host, Path: "/"}, []*http.Cookie{c})
	}
	return jar, nil
}

// LoadCookies builds the session jar from the cookie file at path.
// A missing file yields an empty jar.
func LoadCookies(path string) (http.CookieJar, error) {
	f, err := filesystem.API().Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("%s not found, requests will be made without cookies", path)
			return NewJar(nil)
		}
		return nil, err
	}
	defer f.Close()

	cookies, err := ParseCookies(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Infof("loaded %d cookies from %s", len(cookies), path)
	return NewJar(cookies)
}
