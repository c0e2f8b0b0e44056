// Package console holds the controllers behind the request-management
// screen: the paginated list and the single action dialog. Controllers are
// driven from the UI event loop and are not safe for concurrent use from
// multiple goroutines.
package console

import (
	"context"
	"time"

	"github.com/floodrelief/rescue-console/api"
	"github.com/floodrelief/rescue-console/config"
	"github.com/floodrelief/rescue-console/rescue"
	"github.com/floodrelief/rescue-console/workflow"
)

// API is the backend surface the controllers consume.
type API interface {
	ListRequests(ctx context.Context, q api.Query) (api.Page, error)
	GetRequest(ctx context.Context, id string) (rescue.RequestRecord, error)
	Review(ctx context.Context, id string, p workflow.ReviewPayload) (rescue.RequestRecord, error)
	Cancel(ctx context.Context, id string, p workflow.CancelPayload) (rescue.RequestRecord, error)
	Assign(ctx context.Context, id string, p workflow.AssignPayload) (rescue.RequestRecord, error)
	ActiveTeams(ctx context.Context, limit int) ([]rescue.Team, error)
}

var _ API = (*api.Client)(nil)

// Filters is the active filter set of the request list.
type Filters struct {
	Status       rescue.Status
	Priority     rescue.Priority
	Assigned     *bool
	AddressQuery string
	From         time.Time
	To           time.Time
}

// Sort is an operator-chosen sort override. The zero value means the
// default order, createdAt descending.
type Sort struct {
	Field string
	Order string
}

// ListController owns the filtered, paginated view of the request
// collection. The current page is only ever replaced wholesale with a fresh
// server response; rows are never patched in place, so the list cannot
// drift from server-computed fields.
type ListController struct {
	api   API
	log   Logger
	limit int

	filters Filters
	sort    Sort
	pageNum int
	page    api.Page
	loading bool
	lastErr error
}

// NewListController constructs a controller starting at page 1 with no
// filters. Nothing is fetched until the first SetFilters or Refresh call.
func NewListController(backend API, cfg config.Config, logger Logger) *ListController {
	if logger == nil {
		logger = NewLogger("request-list")
	}
	limit := cfg.PageLimit
	if limit <= 0 {
		limit = 20
	}
	return &ListController{api: backend, log: logger, limit: limit, pageNum: 1}
}

// SetFilters replaces the active filter set, resets to page 1 and refetches.
func (c *ListController) SetFilters(ctx context.Context, f Filters) error {
	c.filters = f
	c.pageNum = 1
	return c.fetch(ctx)
}

// SetSort replaces the sort override and refetches the current page. The
// server applies the order; fetched pages are never re-sorted locally.
func (c *ListController) SetSort(ctx context.Context, s Sort) error {
	c.sort = s
	return c.fetch(ctx)
}

// SetPage moves to page n, clamped to the valid range. An out-of-range n is
// not an error; a clamp that lands on the current page issues no fetch.
func (c *ListController) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	if max := c.maxPage(); n > max {
		n = max
	}
	if n == c.pageNum && len(c.page.Items) > 0 && c.lastErr == nil {
		return nil
	}
	c.pageNum = n
	return c.fetch(ctx)
}

// Refresh re-issues the current fetch with identical filters and page.
// Called after every successful mutation so the list reflects server state.
func (c *ListController) Refresh(ctx context.Context) error {
	return c.fetch(ctx)
}

// CurrentPage returns the last successfully fetched page.
func (c *ListController) CurrentPage() api.Page { return c.page }

// Loading reports whether a list fetch is in flight.
func (c *ListController) Loading() bool { return c.loading }

// LastError returns the error of the most recent fetch, or nil. A non-nil
// value is always a *ListFetchError.
func (c *ListController) LastError() error { return c.lastErr }

// Get fetches a single record, bypassing the page cache. Used for row
// detail without a full page reload.
func (c *ListController) Get(ctx context.Context, id string) (rescue.RequestRecord, error) {
	return c.api.GetRequest(ctx, id)
}

func (c *ListController) fetch(ctx context.Context) error {
	q := api.Query{
		Status:       c.filters.Status,
		Priority:     c.filters.Priority,
		Assigned:     c.filters.Assigned,
		AddressQuery: c.filters.AddressQuery,
		From:         c.filters.From,
		To:           c.filters.To,
		Page:         c.pageNum,
		Limit:        c.limit,
		SortBy:       c.sort.Field,
		Order:        c.sort.Order,
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
		q.Order = "desc"
	}

	c.loading = true
	page, err := c.api.ListRequests(ctx, q)
	c.loading = false
	if err != nil {
		c.lastErr = &ListFetchError{Err: err}
		c.log.Printf("list fetch failed (page %d): %v", c.pageNum, err)
		return c.lastErr
	}
	c.page = page
	c.pageNum = page.Page
	c.lastErr = nil
	return nil
}

func (c *ListController) maxPage() int {
	if c.page.Total <= 0 || c.limit <= 0 {
		return 1
	}
	max := (c.page.Total + c.limit - 1) / c.limit
	if max < 1 {
		max = 1
	}
	return max
}
