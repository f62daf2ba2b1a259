package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/ws"
	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

func newWatchCmd(rt func() *runtime) *cobra.Command {
	var (
		month    string
		interval time.Duration
		noFeed   bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the balance and a month's summary as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := rt()
			if month == "" {
				month = currentMonth()
			}
			if err := domain.ValidateMonth(month); err != nil {
				return err
			}
			if interval <= 0 {
				interval = r.cfg.RevalidateInterval
			}
			return watch(cmd.Context(), r, month, interval, !noFeed)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month to follow (YYYY-MM, default current)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Revalidation interval (default REVALIDATE_INTERVAL)")
	cmd.Flags().BoolVar(&noFeed, "no-feed", false, "Poll only, without the change feed")
	return cmd
}

func watch(ctx context.Context, r *runtime, month string, interval time.Duration, feed bool) error {
	sources := []cache.EventSource{cache.TickerSource{Interval: interval}}
	if feed {
		feedURL, err := ws.FeedURL(r.opts.baseURL)
		if err != nil {
			return err
		}
		sources = append(sources, ws.NewSource(feedURL, r.transactions.RemoteChangeKeys,
			ws.WithSourceToken(r.session),
			ws.WithSourceLogger(r.logger),
		))
	}

	var mu sync.Mutex
	printf := func(format string, a ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(r.out, format, a...)
	}

	balance := cache.Observe(r.store, r.dashboard.BalanceQuery(), func(res cache.Result[domain.Balance]) {
		switch {
		case res.IsError:
			printf("balance: %v\n", res.Err)
		case res.HasData && !res.IsFetching:
			printf("balance: %s %s\n", res.Data.Amount.StringFixed(2), res.Data.Currency)
		}
	})
	defer balance.Close()

	summary := cache.Observe(r.store, r.transactions.MonthlySummaryQuery(month), func(res cache.Result[domain.MonthlySummary]) {
		switch {
		case res.IsError:
			printf("summary %s: %v\n", month, res.Err)
		case res.HasData && !res.IsFetching:
			printf("summary %s: before %s, after %s, difference %s\n",
				res.Data.Month,
				res.Data.TotalBefore.StringFixed(2),
				res.Data.TotalAfter.StringFixed(2),
				res.Data.Difference.StringFixed(2),
			)
		}
	})
	defer summary.Close()

	r.logger.Info().Str("month", month).Dur("interval", interval).Bool("feed", feed).Msg("watching")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cache.NewScheduler(r.store, r.logger, sources...).Run(ctx)
	})
	g.Go(func() error {
		r.store.RunGC(ctx, r.cfg.GCTime)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
