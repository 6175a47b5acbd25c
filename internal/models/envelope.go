package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Envelope is the {success, data, pagination?} body most endpoints return.
type Envelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether another page follows the current one.
func (p *Pagination) HasNext() bool {
	return p != nil && p.Page > 0 && p.Page < p.TotalPages
}

// ListParams are the optional paging/search parameters of list endpoints.
type ListParams struct {
	Page   int
	Limit  int
	Search string
}

func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	return q
}
