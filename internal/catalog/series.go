package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	seriesPath     = "/api/v1/series"
	categoriesPath = "/api/v1/categories"
	episodesPath   = "/api/v1/episodes"
)

// SeriesResource adds the pageable and ordered listings to the series CRUD calls.
type SeriesResource struct {
	Resource[Series, SeriesInput]
}

// Series returns the series endpoint. Updates are sent as PATCH.
func (c *Client) Series() SeriesResource {
	return SeriesResource{newResource[Series, SeriesInput](c, seriesPath, http.MethodPatch)}
}

// Categories returns the category endpoint. Updates are sent as PUT.
func (c *Client) Categories() Resource[Category, CategoryInput] {
	return newResource[Category, CategoryInput](c, categoriesPath, http.MethodPut)
}

// Page fetches one page of series. page is 1-based; the API counts from zero.
func (s SeriesResource) Page(ctx context.Context, page, size int) (Page[Series], error) {
	if s.client == nil {
		return Page[Series]{}, fmt.Errorf("client is nil")
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return Page[Series]{}, fmt.Errorf("page size must be positive")
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page-1))
	values.Set("size", strconv.Itoa(size))
	rel := &url.URL{Path: seriesPath + "/pageable", RawQuery: values.Encode()}

	var payload Page[Series]
	if err := s.client.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Page[Series]{}, err
	}
	return payload, nil
}

// ListByYear asks the server for the collection ordered by year, newest first.
func (s SeriesResource) ListByYear(ctx context.Context) ([]Series, error) {
	return s.list(ctx, url.Values{"sort": []string{"year,desc"}})
}

// EpisodeResource exposes the only episode call the API offers.
type EpisodeResource struct {
	client *Client
}

// Episodes returns the episode endpoint.
func (c *Client) Episodes() EpisodeResource {
	return EpisodeResource{client: c}
}

// Create posts a new episode.
func (e EpisodeResource) Create(ctx context.Context, in EpisodeInput) (Episode, error) {
	if e.client == nil {
		return Episode{}, fmt.Errorf("client is nil")
	}
	var ep Episode
	if err := e.client.do(ctx, http.MethodPost, &url.URL{Path: episodesPath}, in, &ep); err != nil {
		return Episode{}, err
	}
	return ep, nil
}
