// Package collector walks the pages of one or more Unsplash collections and
// gathers the full-resolution URL of every photo it finds.
//
// Pages are fetched one at a time, collection by collection, starting at
// FirstPage. A page that fails to fetch or decode is logged and skipped;
// it never aborts the walk. The order of the returned URLs is therefore
// fully determined by the input and the pages that succeeded:
//
//	for each collection id, in input order
//	    for each page FirstPage .. FirstPage+pages-1
//	        every photo's urls.full, in response order
package collector

import (
	"context"

	"unsplashdl/pkg/logger"
	"unsplashdl/pkg/unsplash"
)

// FirstPage is the number of the first page requested per collection
const FirstPage = 1

// PageClient fetches a single page of a collection
type PageClient interface {
	FetchCollectionPage(ctx context.Context, collectionID string, page int) (unsplash.CollectionPage, error)
}

// PageOutcome records what happened to one requested page
type PageOutcome struct {
	CollectionID string
	Page         int
	URLs         int
	Err          error
}

// OK reports whether the page was fetched and decoded
func (p PageOutcome) OK() bool {
	return p.Err == nil
}

// Result is everything a collection walk produced
type Result struct {
	URLs  []string
	Pages []PageOutcome
}

// Failed returns the pages that could not be fetched or decoded
func (r *Result) Failed() []PageOutcome {
	var failed []PageOutcome
	for _, p := range r.Pages {
		if !p.OK() {
			failed = append(failed, p)
		}
	}
	return failed
}

// Collector gathers image URLs from collection pages
type Collector struct {
	client PageClient
	logger logger.Logger
}

// New creates a Collector. A nil logger falls back to the global one.
func New(client PageClient, log logger.Logger) *Collector {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Collector{client: client, logger: log}
}

// CollectURLs returns the full-resolution URLs of pages FirstPage through
// FirstPage+pages-1 of every collection, in collection-major order.
// Failed pages contribute nothing. pages < 1 yields an empty list.
func (c *Collector) CollectURLs(ctx context.Context, collectionIDs []string, pages int) []string {
	return c.Collect(ctx, collectionIDs, pages).URLs
}

// Collect is CollectURLs with a per-page account of the walk
func (c *Collector) Collect(ctx context.Context, collectionIDs []string, pages int) *Result {
	result := &Result{URLs: []string{}}
	if pages < 1 {
		return result
	}

	for _, id := range collectionIDs {
		for page := FirstPage; page < FirstPage+pages; page++ {
			outcome := PageOutcome{CollectionID: id, Page: page}

			photos, err := c.client.FetchCollectionPage(ctx, id, page)
			if err != nil {
				outcome.Err = err
				c.logger.WithError(err).WarnWithFields("skipping collection page", map[string]interface{}{
					"collection": id,
					"page":       page,
				})
				result.Pages = append(result.Pages, outcome)
				continue
			}

			urls := photos.FullURLs()
			outcome.URLs = len(urls)
			result.URLs = append(result.URLs, urls...)
			result.Pages = append(result.Pages, outcome)

			c.logger.DebugWithFields("collected page", map[string]interface{}{
				"collection": id,
				"page":       page,
				"urls":       len(urls),
			})
		}
	}

	c.logger.InfoWithFields("collection walk finished", map[string]interface{}{
		"collections": len(collectionIDs),
		"pages":       len(result.Pages),
		"failed":      len(result.Failed()),
		"urls":        len(result.URLs),
	})

	return result
}
