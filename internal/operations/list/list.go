package list

import (
	"context"
	"errors"

	tserrors "github.com/input-output-hk/catalyst-forge-libs/tagsweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/store"
	"github.com/input-output-hk/catalyst-forge-libs/tagsweep/sweeptypes"
)

// ErrStalledListing is returned when a store reports more pages without
// handing out a new continuation token.
var ErrStalledListing = errors.New("listing reported more pages without advancing")

// Config holds configuration for a listing.
type Config struct {
	Bucket string
	Prefix string

	// PageSize is the number of keys requested per page; 0 lets the store decide
	PageSize int32
}

// Page is one page of a listing.
type Page struct {
	Objects []sweeptypes.Object

	// Number is the 1-based position of the page in the listing
	Number int
}

// Paginator handles multi-page listings.
type Paginator struct {
	store  store.Store
	config Config

	token     string
	firstPage bool
	hasMore   bool
	pages     int
}

// NewPaginator creates a paginator positioned before the first page.
func NewPaginator(s store.Store, config Config) *Paginator {
	return &Paginator{
		store:     s,
		config:    config,
		firstPage: true,
	}
}

// HasMorePages returns true if there are more pages to fetch.
func (p *Paginator) HasMorePages() bool {
	return p.firstPage || p.hasMore
}

// NextPage fetches the next page of results.
func (p *Paginator) NextPage(ctx context.Context) (*Page, error) {
	out, err := p.store.ListObjects(ctx, p.config.Bucket, store.ListInput{
		Prefix:            p.config.Prefix,
		ContinuationToken: p.token,
		MaxKeys:           p.config.PageSize,
	})
	if err != nil {
		return nil, err
	}

	if out.IsTruncated && (out.NextToken == "" || (!p.firstPage && out.NextToken == p.token)) {
		return nil, tserrors.NewBucketError("list", p.config.Bucket, ErrStalledListing)
	}

	p.firstPage = false
	p.hasMore = out.IsTruncated
	p.token = out.NextToken
	p.pages++

	return &Page{Objects: out.Objects, Number: p.pages}, nil
}

// Pages returns how many pages have been fetched so far.
func (p *Paginator) Pages() int {
	return p.pages
}

// Walk fetches every page in order and hands it to fn. It stops at the first
// error returned by the store or by fn.
func Walk(ctx context.Context, s store.Store, config Config, fn func(*Page) error) error {
	p := NewPaginator(s, config)
	for p.HasMorePages() {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := p.NextPage(ctx)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
	}
	return nil
}
