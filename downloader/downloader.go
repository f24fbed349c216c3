// Package downloader fetches a single planned episode: it resolves the best playable source of the
// episode page and streams it to <root>/<anime>/<season>/<file>, skipping files that already exist.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jutdl/jutdl/filesystem"
	"github.com/jutdl/jutdl/jutsu"
	"github.com/jutdl/jutdl/log"
	"github.com/jutdl/jutdl/network"
	"github.com/jutdl/jutdl/source"
)

// ChunkSize is the size of each read from the video stream.
const ChunkSize = 1 << 20

// maxEpisodeAttempts bounds whole-episode retries after a proxy broke mid-download.
const maxEpisodeAttempts = 2

const partSuffix = ".part"

// Fetcher is the network surface the downloader needs.
type Fetcher interface {
	Page(ctx context.Context, url string) ([]byte, error)
	Stream(ctx context.Context, url string) (*http.Response, error)
	Rotate(ctx context.Context) error
	Proxied() bool
}

// Status is the outcome of one episode.
type Status int

const (
	StatusFailed Status = iota
	StatusDownloaded
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result describes what happened to an episode.
type Result struct {
	Entry     *source.Entry
	Status    Status
	Selection source.Selection
	Written   int64
	Err       error
}

// OK reports whether the episode is on disk.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}

// Downloader writes episodes below Root in the requested Quality.
type Downloader struct {
	fetcher Fetcher
	root    string
	quality string

	// Progress creates the progress reporter of each transfer.
	Progress func(label string, total int64) Progress
}

// New returns a downloader writing below root.
func New(fetcher Fetcher, root, quality string) *Downloader {
	return &Downloader{
		fetcher:  fetcher,
		root:     root,
		quality:  quality,
		Progress: NewBar,
	}
}

// Target is where entry is written.
func (d *Downloader) Target(entry *source.Entry) string {
	return filepath.Join(d.root, filepath.FromSlash(entry.Path()))
}

// Download fetches entry unless it is already on disk. ordinal and total only label progress.
// A proxy that breaks mid-download is rotated and the whole episode is retried once.
func (d *Downloader) Download(ctx context.Context, entry *source.Entry, ordinal, total int) Result {
	target := d.Target(entry)
	if filesystem.Exists(target) {
		log.Infof("episode already downloaded: %s", target)
		return Result{Entry: entry, Status: StatusSkipped}
	}

	var res Result
	for attempt := 1; attempt <= maxEpisodeAttempts; attempt++ {
		res = d.attempt(ctx, entry, target, ordinal, total)
		if res.Err == nil || ctx.Err() != nil || attempt == maxEpisodeAttempts {
			break
		}
		if !errors.Is(res.Err, errProxyBroken) && !network.IsProxyFailure(res.Err) {
			break
		}

		log.Info("problem with proxy, trying another one")
		if err := d.fetcher.Rotate(ctx); err != nil {
			break
		}
		log.Info("trying again with a new proxy")
	}

	if res.Err != nil {
		log.WithFields(log.Fields{"url": entry.URL, "ordinal": ordinal, "total": total}).Errorf("error downloading: %s", res.Err)
	}
	return res
}

var errProxyBroken = errors.New("proxy connection broke mid-download")

func (d *Downloader) attempt(ctx context.Context, entry *source.Entry, target string, ordinal, total int) Result {
	res := Result{Entry: entry, Status: StatusFailed}

	log.Infof("getting information about episode %d/%d", ordinal, total)
	page, err := d.fetcher.Page(ctx, entry.URL)
	if err != nil {
		res.Err = err
		return res
	}

	videos, err := jutsu.Videos(page)
	if err != nil {
		res.Err = err
		return res
	}

	log.Infof("searching for video in %sp quality", d.quality)
	sel, err := source.SelectQuality(videos, d.quality)
	if err != nil {
		res.Err = err
		return res
	}
	res.Selection = sel
	if sel.Substituted {
		log.Infof("quality %sp is not available, using %sp", sel.Requested, sel.Video.Quality)
	}

	written, err := d.save(ctx, sel.Video.URL, target, fmt.Sprintf("[%d/%d] %s (%sp)", ordinal, total, entry.Path(), sel.Video.Quality))
	res.Written = written
	if err != nil {
		res.Err = err
		return res
	}

	res.Status = StatusDownloaded
	return res
}

// save streams url into target through a .part file renamed on completion.
func (d *Downloader) save(ctx context.Context, url, target, label string) (int64, error) {
	resp, err := d.fetcher.Stream(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	fs := filesystem.API()
	if err := fs.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
		return 0, err
	}

	part := target + partSuffix
	file, err := fs.Create(part)
	if err != nil {
		return 0, err
	}

	bar := d.Progress(label, resp.ContentLength)
	written, copyErr := io.CopyBuffer(io.MultiWriter(file, bar), resp.Body, make([]byte, ChunkSize))
	bar.Finish(copyErr == nil)

	if err := file.Close(); err != nil && copyErr == nil {
		copyErr = err
	}
	if copyErr != nil {
		if ctx.Err() != nil {
			return written, ctx.Err()
		}
		if d.fetcher.Proxied() {
			return written, fmt.Errorf("%w: %w", errProxyBroken, copyErr)
		}
		return written, copyErr
	}

	return written, fs.Rename(part, target)
}
