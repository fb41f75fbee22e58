package model

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps Page*Size inside int32 so offsets never wrap
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Direction of a sort order
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders results by one field
type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort reads "field" or "field,asc|desc". An empty string yields nil.
func ParseSort(s string) (*Sort, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	field, dir, _ := strings.Cut(s, ",")
	sort := &Sort{Field: strings.TrimSpace(field), Direction: Asc}
	if sort.Field == "" {
		return nil, fmt.Errorf("sort field is empty")
	}
	switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
	case "", Asc:
	case Desc:
		sort.Direction = Desc
	default:
		return nil, fmt.Errorf("invalid sort direction %q", dir)
	}
	return sort, nil
}

// Pageable requests one page of results. Page is zero based.
type Pageable struct {
	Page int
	Size int
	Sort *Sort
}

// Normalize clamps page and size into their valid ranges
func (p Pageable) Normalize() Pageable {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page
func (p Pageable) Offset() int {
	return p.Page * p.Size
}

// Slice is one page of results plus whether another page follows.
// There is no total count.
type Slice[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	Size    int  `json:"size"`
	HasNext bool `json:"has_next"`
}

// NewSlice builds a slice from up to Size+1 fetched rows
func NewSlice[T any](rows []T, p Pageable) Slice[T] {
	hasNext := len(rows) > p.Size
	if hasNext {
		rows = rows[:p.Size]
	}
	if rows == nil {
		rows = []T{}
	}
	return Slice[T]{Items: rows, Page: p.Page, Size: p.Size, HasNext: hasNext}
}
