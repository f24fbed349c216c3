package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jutdl/jutdl/constant"
	"github.com/jutdl/jutdl/icon"
	"github.com/jutdl/jutdl/key"
	"github.com/jutdl/jutdl/network"
	"github.com/jutdl/jutdl/proxy"
	"github.com/jutdl/jutdl/style"
	"github.com/jutdl/jutdl/util"
	"github.com/jutdl/jutdl/where"
	"github.com/spf13/viper"
)

// connection is the configured HTTP session with its proxy pool.
type connection struct {
	session *network.Session
	pool    *proxy.Pool
	fetcher *network.Fetcher
}

// connect builds the session from config, loads cookies and proxies and activates the first
// working proxy. Without a working proxy requests go out directly.
func connect(ctx context.Context) (*connection, error) {
	jar, err := network.LoadCookies(where.Cookies())
	if err != nil {
		return nil, err
	}

	session := network.NewSession(network.Options{
		Timeout:     time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second,
		UserAgent:   viper.GetString(key.NetworkUserAgent),
		Fingerprint: viper.GetBool(key.NetworkFingerprint),
		Jar:         jar,
		ProbeURL:    constant.ProbeURL,
	})

	candidates, err := proxy.LoadFile(where.Proxies())
	if err != nil {
		return nil, err
	}

	pool := proxy.NewPool(session, candidates)
	if pool.Len() > 0 {
		erase := util.PrintErasable(fmt.Sprintf("%s Checking %s...", icon.Get(icon.Proxy), util.Quantify(pool.Len(), "proxy", "proxies")))
		err := pool.Activate(ctx)
		erase()

		switch {
		case errors.Is(err, proxy.ErrExhausted):
			fmt.Printf("%s %s\n", icon.Get(icon.Warn), style.Faint("no working proxy, connecting directly"))
		case err != nil:
			return nil, err
		default:
			fmt.Printf("%s %s\n", icon.Get(icon.Proxy), style.Faint("using proxy "+pool.Active().MustGet().Redacted()))
		}
	}

	return &connection{
		session: session,
		pool:    pool,
		fetcher: network.NewFetcher(session, pool),
	}, nil
}
