package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/floodrelief/rescue-console/rescue"
)

// Page is one page of the request collection as returned by the backend.
// The item order is the server's; callers must not re-sort it.
type Page struct {
	Items []rescue.RequestRecord `json:"items"`
	Total int                    `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

type teamList struct {
	Items []rescue.Team `json:"items"`
}

// Query captures the filter, sort and pagination parameters of a list
// fetch. Zero values are omitted from the request.
type Query struct {
	Status       rescue.Status
	Priority     rescue.Priority
	Assigned     *bool
	AddressQuery string
	From         time.Time
	To           time.Time
	Page         int
	Limit        int
	SortBy       string
	Order        string
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Priority != "" {
		v.Set("priority", string(q.Priority))
	}
	if q.Assigned != nil {
		v.Set("assigned", strconv.FormatBool(*q.Assigned))
	}
	if q.AddressQuery != "" {
		v.Set("q", q.AddressQuery)
	}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
		if q.Order != "" {
			v.Set("order", q.Order)
		}
	}
	return v
}
