package utils

import (
	"errors"
	"math"
	"strconv"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 50

	// MaxPage keeps (Page-1)*PerPage inside int.
	MaxPage = math.MaxInt / MaxPerPage
)

// Pagination 分页参数，页码从 1 开始
type Pagination struct {
	Page    int
	PerPage int
}

// ParsePagination reads raw page/per_page query values. Missing or invalid
// values fall back to the defaults and per_page is capped at MaxPerPage.
func ParsePagination(page, perPage string) Pagination {
	p := Pagination{Page: DefaultPage, PerPage: DefaultPerPage}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	} else if errors.Is(err, strconv.ErrRange) && n > 0 {
		p.Page = MaxPage
	}
	if n, err := strconv.Atoi(perPage); err == nil && n > 0 {
		p.PerPage = n
	}
	return p.Normalize()
}

// Normalize applies the same defaults and cap to an already built value.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages is ceil(total/PerPage); zero items means zero pages.
func (p Pagination) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	per := int64(p.PerPage)
	return int((total + per - 1) / per)
}

// Page 一页数据及总数
type Page[T any] struct {
	Items      []T
	Total      int64
	Pages      int
	Pagination Pagination
}

func NewPage[T any](items []T, total int64, p Pagination) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Pages:      p.TotalPages(total),
		Pagination: p,
	}
}
