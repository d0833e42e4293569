package hiring

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type JobSort string

const (
	SortByOrder     JobSort = "order"
	SortByTitle     JobSort = "title"
	SortByCreatedAt JobSort = "createdAt"
)

// JobQuery is the filter/sort/page tuple of a job list view.
type JobQuery struct {
	Search   string
	Status   JobStatus
	Sort     JobSort
	Page     int
	PageSize int
}

// Normalize fills defaults and clamps paging so equal views share one key.
func (q JobQuery) Normalize() JobQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Sort != SortByTitle && q.Sort != SortByCreatedAt {
		q.Sort = SortByOrder
	}
	if !q.Status.Valid() {
		q.Status = ""
	}
	q.Page, q.PageSize = normalizePaging(q.Page, q.PageSize)
	return q
}

// Key is the canonical cache key of the view.
func (q JobQuery) Key() string {
	return "jobs?" + q.Values().Encode()
}

func (q JobQuery) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("status", string(q.Status))
	v.Set("sort", string(q.Sort))
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	return v
}

func ParseJobQuery(v url.Values) JobQuery {
	return JobQuery{
		Search:   v.Get("search"),
		Status:   JobStatus(v.Get("status")),
		Sort:     JobSort(v.Get("sort")),
		Page:     atoiDefault(v.Get("page"), 1),
		PageSize: atoiDefault(v.Get("pageSize"), DefaultPageSize),
	}.Normalize()
}

// CandidateQuery is the filter/page tuple of a candidate list view.
type CandidateQuery struct {
	Search   string
	Stage    Stage
	JobID    string
	Page     int
	PageSize int
}

func (q CandidateQuery) Normalize() CandidateQuery {
	q.Search = strings.TrimSpace(q.Search)
	if !q.Stage.Valid() {
		q.Stage = ""
	}
	q.Page, q.PageSize = normalizePaging(q.Page, q.PageSize)
	return q
}

func (q CandidateQuery) Key() string {
	return "candidates?" + q.Values().Encode()
}

func (q CandidateQuery) Values() url.Values {
	q = q.Normalize()
	v := url.Values{}
	v.Set("search", q.Search)
	v.Set("stage", string(q.Stage))
	v.Set("jobId", q.JobID)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	return v
}

func ParseCandidateQuery(v url.Values) CandidateQuery {
	return CandidateQuery{
		Search:   v.Get("search"),
		Stage:    Stage(v.Get("stage")),
		JobID:    v.Get("jobId"),
		Page:     atoiDefault(v.Get("page"), 1),
		PageSize: atoiDefault(v.Get("pageSize"), DefaultPageSize),
	}.Normalize()
}

// TimelineKey is the cache key of a candidate's timeline view.
func TimelineKey(candidateID string) string {
	return "timeline/" + candidateID
}

// Page is one page of a list view with its pagination metadata.
type Page[T any] struct {
	Items      []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPage builds pagination metadata around items.
func NewPage[T any](items []T, page, pageSize, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Page[T]{Items: items, Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// Remove drops the items matching match, lowering Total and TotalPages to
// suit. Items are filtered in place.
func (p Page[T]) Remove(match func(T) bool) Page[T] {
	items := p.Items[:0]
	total := p.Total
	for _, it := range p.Items {
		if match(it) {
			total--
			continue
		}
		items = append(items, it)
	}
	return NewPage(items, p.Page, p.PageSize, max(total, 0))
}

// Clone copies the item slice so edits to the copy do not alias the original.
func (p Page[T]) Clone() Page[T] {
	p.Items = append([]T(nil), p.Items...)
	return p
}

func normalizePaging(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
