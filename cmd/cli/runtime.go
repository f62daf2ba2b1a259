package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/api"
	"github.com/dinhcongdat866/moneytracker/internal/cache"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/config"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/logger"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/metrics"
	"github.com/dinhcongdat866/moneytracker/internal/usecase"
)

// runtime is the client core wired for one CLI invocation.
type runtime struct {
	cfg      config.ClientConfig
	opts     *options
	out      io.Writer
	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	session      *api.Session
	client       *api.Client
	auth         *api.AuthClient
	store        *cache.Store
	transactions *usecase.TransactionUseCase
	dashboard    *usecase.DashboardUseCase
	prefetch     *usecase.PrefetchUseCase
}

func newRuntime(cfg config.ClientConfig, opts *options, out io.Writer) (*runtime, error) {
	log := logger.NewWithWriter(logger.Config{Level: opts.logLevel, Format: "console"}, os.Stderr)

	token := cfg.APIToken
	if token == "" {
		saved, err := readToken(opts.tokenFile)
		if err != nil {
			return nil, err
		}
		token = saved
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	session := api.NewSession(token)
	client := api.NewClient(opts.baseURL,
		api.WithHTTPClient(&http.Client{Timeout: opts.timeout}),
		api.WithTokenSource(session),
		api.WithLogger(log),
	)

	retry := cache.DefaultRetryPolicy()
	retry.MaxRetries = cfg.RetryMax
	retry.InitialInterval = cfg.RetryInitial
	retry.MaxInterval = cfg.RetryMaxInterval

	store := cache.NewStore(
		cache.WithRetryPolicy(retry),
		cache.WithGCTime(cfg.GCTime),
		cache.WithRecorder(m),
		cache.WithLogger(log),
	)

	transactions := usecase.NewTransactionUseCase(store, api.NewTransactionsClient(client),
		usecase.WithLogger(log),
		usecase.WithMutationRecorder(m),
		usecase.WithPageSize(cfg.PageSize),
	)
	dashboard := usecase.NewDashboardUseCase(store, api.NewDashboardClient(client))

	return &runtime{
		cfg:          cfg,
		opts:         opts,
		out:          out,
		logger:       log,
		registry:     registry,
		metrics:      m,
		session:      session,
		client:       client,
		auth:         api.NewAuthClient(client, session),
		store:        store,
		transactions: transactions,
		dashboard:    dashboard,
		prefetch:     usecase.NewPrefetchUseCase(transactions, dashboard, cfg.PrefetchInterval),
	}, nil
}

// printJSON writes v when --json is set and reports whether it did.
func (rt *runtime) printJSON(v any) (bool, error) {
	if !rt.opts.jsonOut {
		return false, nil
	}
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

// printStats writes the non-zero cache and mutation counters.
func (rt *runtime) printStats() {
	families, err := rt.registry.Gather()
	if err != nil {
		rt.logger.Warn().Err(err).Msg("gather cache statistics")
		return
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			var value float64
			switch {
			case metric.GetCounter() != nil:
				value = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				value = metric.GetGauge().GetValue()
			}
			if value == 0 {
				continue
			}
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, l := range metric.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), value))
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(rt.out, "cache statistics:")
	for _, l := range lines {
		fmt.Fprintln(rt.out, "  "+l)
	}
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".moneytracker-token"
	}
	return filepath.Join(dir, "moneytracker", "token")
}

func readToken(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

// currentMonth is the default month for month-scoped commands.
func currentMonth() string {
	return domain.MonthKey(timeNow())
}
