package cache

import (
	"context"

	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// FirstPage is the page parameter of the first page of every paged read.
const FirstPage = 1

// Pages is the cached value of a paged read: loaded pages in order with the
// page parameter each was fetched with.
type Pages[P any] struct {
	Pages      []P
	PageParams []int
}

// Clone copies the page slices so the result can be edited without
// touching the cached value.
func (p Pages[P]) Clone() Pages[P] {
	return Pages[P]{
		Pages:      append([]P(nil), p.Pages...),
		PageParams: append([]int(nil), p.PageParams...),
	}
}

// InfiniteQuery is a paged read definition.
type InfiniteQuery[P any] struct {
	Key       querykey.Key
	Class     Class
	FetchPage func(ctx context.Context, page int) (P, error)
	// NextPage returns the parameter of the page after last, if any.
	NextPage func(last P) (int, bool)
}

// Query returns the read that loads, or reloads, every page currently
// cached under the key.
func (q InfiniteQuery[P]) Query(s *Store) Query[Pages[P]] {
	return Query[Pages[P]]{
		Key:   q.Key,
		Class: q.Class,
		Fn: func(ctx context.Context) (Pages[P], error) {
			want := 1
			if cur, ok := GetData[Pages[P]](s, q.Key); ok && len(cur.Pages) > 0 {
				want = len(cur.Pages)
			}

			var out Pages[P]
			param := FirstPage
			for i := 0; i < want; i++ {
				page, err := q.FetchPage(ctx, param)
				if err != nil {
					return Pages[P]{}, err
				}
				out.Pages = append(out.Pages, page)
				out.PageParams = append(out.PageParams, param)

				next, ok := q.NextPage(page)
				if !ok {
					break
				}
				param = next
			}
			return out, nil
		},
	}
}

// FetchInfinite reads the pages of q through the store.
func FetchInfinite[P any](ctx context.Context, s *Store, q InfiniteQuery[P]) (Pages[P], error) {
	return Fetch(ctx, s, q.Query(s))
}

// PrefetchInfinite warms the first page of q unless it is fresh.
func PrefetchInfinite[P any](ctx context.Context, s *Store, q InfiniteQuery[P]) error {
	return Prefetch(ctx, s, q.Query(s))
}

// HasNextPage reports whether the last cached page of q has a successor.
func HasNextPage[P any](s *Store, q InfiniteQuery[P]) bool {
	cur, ok := GetData[Pages[P]](s, q.Key)
	if !ok || len(cur.Pages) == 0 {
		return false
	}
	_, more := q.NextPage(cur.Pages[len(cur.Pages)-1])
	return more
}

// FetchNextPage appends the page after the last cached one. It loads the
// first page when nothing is cached and reports false when there is no
// further page.
func FetchNextPage[P any](ctx context.Context, s *Store, q InfiniteQuery[P]) (Pages[P], bool, error) {
	cur, ok := GetData[Pages[P]](s, q.Key)
	if !ok || len(cur.Pages) == 0 {
		pages, err := FetchInfinite(ctx, s, q)
		return pages, err == nil, err
	}

	next, more := q.NextPage(cur.Pages[len(cur.Pages)-1])
	if !more {
		return cur, false, nil
	}

	s.register(q.Key, q.Class, q.Query(s).Fetcher())

	v, err := s.fetchOnce(ctx, q.Key, q.Class, func(ctx context.Context) (any, error) {
		page, err := q.FetchPage(ctx, next)
		if err != nil {
			return nil, err
		}
		out := cur.Clone()
		out.Pages = append(out.Pages, page)
		out.PageParams = append(out.PageParams, next)
		return out, nil
	})
	if err != nil {
		return cur, false, err
	}

	pages, err := cast[Pages[P]](q.Key, v)
	return pages, err == nil, err
}
