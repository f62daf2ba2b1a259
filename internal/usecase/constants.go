package usecase

import "time"

const (
	// MonthlyPageSize is the page size of monthly and recent transaction feeds.
	MonthlyPageSize = 10

	// DefaultTopExpensesLimit is how many categories the dashboard ranks.
	DefaultTopExpensesLimit = 3

	// DefaultPrefetchInterval throttles repeated next-month prefetches.
	DefaultPrefetchInterval = 30 * time.Second

	// prefetchConcurrency bounds parallel detail prefetches.
	prefetchConcurrency = 4
)

// Mutation kinds reported to MutationRecorder.
const (
	KindCreate = "create"
	KindUpdate = "update"
	KindDelete = "delete"
)
