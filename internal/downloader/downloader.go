// Package downloader fetches a list of image URLs and writes each body to an
// indexed file in a destination directory.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"
	"sync"
	"time"

	errs "unsplashdl/pkg/errors"
	"unsplashdl/pkg/logger"
	"unsplashdl/pkg/storage"
	"unsplashdl/pkg/unsplash"
)

// ExtensionPolicy decides the file extension of a downloaded image
type ExtensionPolicy string

const (
	// ExtensionFixed names every file {index}.png
	ExtensionFixed ExtensionPolicy = "fixed"
	// ExtensionContentType picks the extension from the response Content-Type
	ExtensionContentType ExtensionPolicy = "content-type"

	// DefaultExtension is used by ExtensionFixed and whenever a content type is unknown
	DefaultExtension = ".png"
)

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

// Extension returns the extension for a response with the given Content-Type
func (p ExtensionPolicy) Extension(contentType string) string {
	if p != ExtensionContentType {
		return DefaultExtension
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return DefaultExtension
	}
	if ext, ok := extensionsByType[strings.ToLower(mediaType)]; ok {
		return ext
	}
	return DefaultExtension
}

// Fetcher downloads the body of a URL
type Fetcher interface {
	Download(ctx context.Context, url string) (*unsplash.Asset, error)
}

// Result is the outcome of downloading one URL
type Result struct {
	Index       int
	URL         string
	Path        string
	Bytes       int64
	ContentType string
	Duration    time.Duration
	Err         error
}

// OK reports whether the file was written
func (r Result) OK() bool {
	return r.Err == nil
}

// Options tune a Downloader
type Options struct {
	Concurrency int
	Extension   ExtensionPolicy
	// OnResult, when set, is called once per finished item. Calls are
	// serialised but arrive in completion order, not index order.
	OnResult func(Result)
}

// Downloader writes fetched images to disk
type Downloader struct {
	client    Fetcher
	extension ExtensionPolicy
	pool      *WorkerPool
	onResult  func(Result)
	logger    logger.Logger
	mu        sync.Mutex
}

// New creates a Downloader
func New(client Fetcher, opts Options, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Extension == "" {
		opts.Extension = ExtensionFixed
	}
	return &Downloader{
		client:    client,
		extension: opts.Extension,
		pool:      NewWorkerPool(opts.Concurrency, log),
		onResult:  opts.OnResult,
		logger:    log,
	}
}

// DownloadAll fetches every URL and writes its body to
// {destination}/{index}{ext}. It returns exactly one Result per URL, in
// input order. Failures are per item; the batch always runs to the end.
// destination must already exist.
func (d *Downloader) DownloadAll(ctx context.Context, urls []string, destination string) []Result {
	results := make([]Result, len(urls))
	store := storage.NewManager(destination)

	d.logger.InfoWithFields("Starting downloads", map[string]interface{}{
		"count":       len(urls),
		"destination": destination,
		"workers":     d.pool.GetActiveWorkers(),
	})

	d.pool.Run(ctx, len(urls),
		func(ctx context.Context, i int) {
			results[i] = d.downloadOne(ctx, store, i, urls[i])
			d.report(results[i])
		},
		func(i int, err error) {
			results[i] = Result{Index: i, URL: urls[i], Err: errs.Transport("download "+urls[i], 0, err)}
			d.report(results[i])
		},
	)

	saved := store.GetSavedCount()
	d.logger.InfoWithFields("Downloads finished", map[string]interface{}{
		"destination": store.GetOutputDir(),
		"succeeded":   saved,
		"failed":      len(results) - saved,
		"bytes":       store.GetSavedBytes(),
	})

	return results
}

func (d *Downloader) report(r Result) {
	if d.onResult == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onResult(r)
}

// downloadOne handles a single item
func (d *Downloader) downloadOne(ctx context.Context, store *storage.Manager, index int, url string) Result {
	start := time.Now()
	result := Result{Index: index, URL: url}

	asset, err := d.client.Download(ctx, url)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		d.logger.WithError(err).WarnWithFields("Skipping image", map[string]interface{}{
			"index": index,
			"url":   url,
		})
		return result
	}
	result.ContentType = asset.ContentType

	name := fmt.Sprintf("%d%s", index, d.extension.Extension(asset.ContentType))
	n, path, err := store.Save(name, bytes.NewReader(asset.Data))
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		d.logger.WithError(err).WarnWithFields("Failed to save image", map[string]interface{}{
			"index": index,
			"file":  name,
			"size":  len(asset.Data),
		})
		return result
	}

	result.Path = path
	result.Bytes = n

	d.logger.DebugWithFields("Saved image", map[string]interface{}{
		"index":    index,
		"file":     path,
		"size":     n,
		"duration": result.Duration,
	})

	return result
}
