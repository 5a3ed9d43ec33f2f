/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package types

import "math"

// DefaultPageSize is the fixed page size used by repository filters.
const DefaultPageSize = 10

// PageRequest describes pagination, optional filter, and ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   Where
	orders   []string // "name", "createdAt DESC"
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = DefaultPageSize
	}
	return p.pageSize
}

// GetPage returns the requested page, at least 1 and at most the last page
// whose offset fits in an int.
func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	if maxPage := math.MaxInt / p.GetPageSize(); p.page > maxPage {
		p.page = maxPage
	}
	return p.page
}

func (p *PageRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

func (p *PageRequest) GetFilter() Where {
	return p.filter
}

func (p *PageRequest) GetOrders() []string {
	return p.orders
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page int, pageSize int, filter Where, orders []string) *PageRequest {
	return &PageRequest{page, pageSize, filter, orders}
}

// NewPageRequestWithFilter constructs a PageRequest with a filter only.
func NewPageRequestWithFilter(page int, pageSize int, filter Where) *PageRequest {
	return NewPageRequest(page, pageSize, filter, make([]string, 0))
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page int, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, make([]string, 0))
}

// Pagination holds one page of results along with pagination metadata.
type Pagination[T any] struct {
	Items    []*T `json:"results"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PageSize int  `json:"-"`
	LastPage int  `json:"lastPage"`
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page int, pageSize int) *Pagination[T] {
	return &Pagination[T]{Items: make([]*T, 0), Page: page, PageSize: pageSize}
}

// SetTotal records the matching row count and derives LastPage as
// ceil(total / pageSize).
func (p *Pagination[T]) SetTotal(total int) {
	p.Total = total
	p.LastPage = 0
	if p.PageSize > 0 {
		p.LastPage = (total + p.PageSize - 1) / p.PageSize
	}
}

// MapPagination converts the items of a page while keeping its metadata.
func MapPagination[T, R any](p *Pagination[T], fn func(*T) *R) *Pagination[R] {
	out := &Pagination[R]{
		Items:    make([]*R, 0, len(p.Items)),
		Total:    p.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
		LastPage: p.LastPage,
	}
	for _, item := range p.Items {
		out.Items = append(out.Items, fn(item))
	}
	return out
}
