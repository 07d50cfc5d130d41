package models

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is the page/limit pair accepted by every list endpoint.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest parses raw query values. Anything missing, non-numeric or
// not positive falls back to the defaults; limit is capped at maxLimit.
func NewPageRequest(rawPage, rawLimit string, defaultLimit, maxLimit int) PageRequest {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}

	page, err := strconv.Atoi(rawPage)
	if err != nil || page <= 0 {
		page = DefaultPage
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return PageRequest{Page: page, Limit: limit}
}

func (p PageRequest) Normalized() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

func (p PageRequest) Offset() int {
	p = p.Normalized()
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewPagination(request PageRequest, totalItems int64) Pagination {
	request = request.Normalized()

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(request.Limit)))
	}

	return Pagination{
		CurrentPage:  request.Page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: request.Limit,
	}
}

// Page is one slice of a list result plus its metadata.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func NewPage[T any](items []T, request PageRequest, totalItems int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Data: items, Pagination: NewPagination(request, totalItems)}
}
