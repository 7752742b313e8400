package coursesearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/coursesearch/internal/domain/search/mode"
	"github.com/kailas-cloud/coursesearch/internal/domain/search/request"
)

// SearchBuilder is a fluent builder for course searches.
type SearchBuilder struct {
	client *Client

	query    string
	codes    []string
	hubUnits []string
	mode     SearchMode
}

// Query sets the free-text query. It is normalized before matching, so both
// raw text and an already normalized keyword list are accepted.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Codes restricts results to the given subject codes.
func (b *SearchBuilder) Codes(codes ...string) *SearchBuilder {
	b.codes = append(b.codes, codes...)
	return b
}

// HubUnits filters by Hub unit.
func (b *SearchBuilder) HubUnits(units ...string) *SearchBuilder {
	b.hubUnits = append(b.hubUnits, units...)
	return b
}

// Mode sets the search mode.
func (b *SearchBuilder) Mode(m SearchMode) *SearchBuilder {
	b.mode = m
	return b
}

// Broad keeps a course when any keyword matches (default).
func (b *SearchBuilder) Broad() *SearchBuilder { return b.Mode(ModeBroad) }

// Honed requires most keywords to match, and every selected Hub unit when
// the query has no keywords.
func (b *SearchBuilder) Honed() *SearchBuilder { return b.Mode(ModeHoned) }

func (b *SearchBuilder) request() (request.Request, error) {
	m, err := mode.Parse(string(b.mode))
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return request.New(b.query, b.codes, b.hubUnits, m) //nolint:wrapcheck // domain field error
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (res Result, err error) {
	c := b.client
	start := time.Now()
	defer func() {
		c.obs.observe("search", start, err, "mode", string(b.mode), "courses", len(res.Courses))
	}()

	req, err := b.request()
	if err != nil {
		return Result{}, err
	}
	resp, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	c.obs.observeResults(b.mode, len(resp.Entries))
	return resultFromResponse(resp), nil
}
