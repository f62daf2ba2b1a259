package usecase

import (
	"slices"

	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/querykey"
)

// Cached paged reads hold either cache.Pages[domain.TransactionPage]
// (monthly and recent feeds) or a single domain.TransactionPage (list keys).

// acceptsCreated reports whether a transaction dated in month belongs on
// the first page of the read cached under k.
func acceptsCreated(k querykey.Key, month string) bool {
	switch k.Scope() {
	case querykey.ScopeMonthly:
		m, ok := querykey.MonthOf(k)
		return ok && m == month
	case querykey.ScopeList:
		f, ok := querykey.ParseList(k)
		return ok && (f.Month == "" || f.Month == month)
	case querykey.ScopeRecent:
		return true
	default:
		return false
	}
}

func prependTransaction(data any, tx domain.Transaction) (any, bool) {
	switch v := data.(type) {
	case cache.Pages[domain.TransactionPage]:
		if len(v.Pages) == 0 {
			return data, false
		}
		out := v.Clone()
		out.Pages[0].Total++
		out.Pages[0].Items = prepend(out.Pages[0].Items, tx)
		return out, true
	case domain.TransactionPage:
		if v.Page > cache.FirstPage {
			return data, false
		}
		v.Items = prepend(v.Items, tx)
		v.Total++
		return v, true
	default:
		return data, false
	}
}

func prepend(items []domain.Transaction, tx domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(items)+1)
	out = append(out, tx)
	return append(out, items...)
}

func removeTransaction(data any, id string) (any, bool) {
	switch v := data.(type) {
	case cache.Pages[domain.TransactionPage]:
		out := v.Clone()
		removed := false
		for i, page := range out.Pages {
			if items, ok := without(page.Items, id); ok {
				out.Pages[i].Items = items
				out.Pages[i].Total = max(page.Total-1, 0)
				removed = true
			}
		}
		if !removed {
			return data, false
		}
		return out, true
	case domain.TransactionPage:
		items, ok := without(v.Items, id)
		if !ok {
			return data, false
		}
		v.Items = items
		v.Total = max(v.Total-1, 0)
		return v, true
	default:
		return data, false
	}
}

func without(items []domain.Transaction, id string) ([]domain.Transaction, bool) {
	i := slices.IndexFunc(items, func(tx domain.Transaction) bool { return tx.ID == id })
	if i < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), i, i+1), true
}

// findTransaction looks id up in a cached paged read.
func findTransaction(data any, id string) (domain.Transaction, bool) {
	var pages []domain.TransactionPage
	switch v := data.(type) {
	case cache.Pages[domain.TransactionPage]:
		pages = v.Pages
	case domain.TransactionPage:
		pages = []domain.TransactionPage{v}
	}
	for _, page := range pages {
		for _, tx := range page.Items {
			if tx.ID == id {
				return tx, true
			}
		}
	}
	return domain.Transaction{}, false
}

// Flatten concatenates the items of loaded pages.
func Flatten(pages cache.Pages[domain.TransactionPage]) []domain.Transaction {
	var n int
	for _, p := range pages.Pages {
		n += len(p.Items)
	}
	out := make([]domain.Transaction, 0, n)
	for _, p := range pages.Pages {
		out = append(out, p.Items...)
	}
	return out
}
