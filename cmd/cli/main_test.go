package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	httpAdapter "github.com/dinhcongdat866/moneytracker/internal/adapter/http"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/handler"
	"github.com/dinhcongdat866/moneytracker/internal/adapter/repository/memory"
	"github.com/dinhcongdat866/moneytracker/internal/backend"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/auth"
	"github.com/dinhcongdat866/moneytracker/internal/infrastructure/config"
)

type counterIDs struct {
	mu sync.Mutex
	n  int
}

func (c *counterIDs) Generate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("srv-%d", c.n)
}

func newTestServer(t *testing.T, authRequired bool) *httptest.Server {
	t.Helper()

	repo := memory.NewTransactionRepository(backend.SeedTransactions())
	jwtManager := auth.NewJWTManager("cli-test-secret", time.Hour)

	srv := httptest.NewServer(httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(backend.NewTransactionService(repo, &counterIDs{})),
		DashboardHandler:   handler.NewDashboardHandler(backend.NewDashboardService(repo)),
		AuthHandler:        handler.NewAuthHandler(jwtManager),
		HealthHandler:      handler.NewHealthHandler(),
		JWTManager:         jwtManager,
		AuthRequired:       authRequired,
		Logger:             zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClientConfig(baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		APIBaseURL:         baseURL,
		APITimeout:         5 * time.Second,
		RetryMax:           0,
		RetryInitial:       10 * time.Millisecond,
		RetryMaxInterval:   50 * time.Millisecond,
		RevalidateInterval: time.Hour,
		GCTime:             5 * time.Minute,
		PageSize:           5,
		PrefetchInterval:   time.Minute,
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// cli runs commands against one server with a private token file.
type cli struct {
	t         *testing.T
	cfg       *config.ClientConfig
	tokenFile string
}

func newCLI(t *testing.T, srv *httptest.Server) *cli {
	return &cli{
		t:         t,
		cfg:       testClientConfig(srv.URL),
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

func (c *cli) runContext(ctx context.Context, args ...string) (string, error) {
	c.t.Helper()

	out := &syncBuffer{}
	cmd := newRootCmd(c.cfg, out)
	cmd.SetArgs(append([]string{"--token-file", c.tokenFile, "--log-level", "disabled"}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	return c.runContext(context.Background(), args...)
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v: unexpected error: %v", args, err)
	}
	return out
}

func TestTxListLoadsEveryPageOfMonth(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("tx", "list", "--month", "2025-12", "--all")

	for _, id := range []string{"t23", "t1", "t2"} {
		if !strings.Contains(out, id) {
			t.Fatalf("expected %s in listing, got:\n%s", id, out)
		}
	}
	if strings.Index(out, "t23") > strings.Index(out, "t21") {
		t.Fatalf("expected newest first, got:\n%s", out)
	}
	if !strings.Contains(out, "Dec 2025") {
		t.Fatalf("expected month summary line, got:\n%s", out)
	}
}

func TestTxListFirstPageOnly(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("--json", "tx", "list", "--month", "2025-12")

	var txs []dto.TransactionResponse
	if err := json.Unmarshal([]byte(out), &txs); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(txs) != 5 {
		t.Fatalf("expected one page of 5, got %d", len(txs))
	}
	if txs[0].ID != "t23" {
		t.Fatalf("expected t23 first, got %s", txs[0].ID)
	}
}

func TestTxAddEditDelete(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("tx", "add",
		"--amount", "12.50",
		"--category", "food & drink",
		"--date", "2025-12-08",
		"--note", "Tea",
	)
	if !strings.Contains(out, "created srv-1") {
		t.Fatalf("expected created line, got:\n%s", out)
	}
	if !strings.Contains(out, "Food & Drink (1)") {
		t.Fatalf("expected category resolved from catalog, got:\n%s", out)
	}

	out = c.mustRun("--json", "tx", "edit", "srv-1", "--note", "Green tea", "--amount", "14")
	var edited dto.TransactionResponse
	if err := json.Unmarshal([]byte(out), &edited); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if edited.Note != "Green tea" || edited.Amount.String() != "14" {
		t.Fatalf("unexpected edit result: %+v", edited)
	}
	if edited.Category.ID != "1" || edited.Date.Format(time.DateOnly) != "2025-12-08" {
		t.Fatalf("expected untouched fields to survive, got %+v", edited)
	}

	if out := c.mustRun("tx", "delete", "srv-1"); !strings.Contains(out, "deleted srv-1") {
		t.Fatalf("expected deleted line, got:\n%s", out)
	}

	_, err := c.run("tx", "show", "srv-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	_, err = c.run("tx", "delete", "srv-1")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestTxAddRejectsUnknownCategory(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	_, err := c.run("tx", "add", "--amount", "5", "--category", "Nope")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = c.run("tx", "add", "--amount", "abc", "--category", "1")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for amount, got %v", err)
	}
}

func TestLoginGatesProtectedCommands(t *testing.T) {
	c := newCLI(t, newTestServer(t, true))

	if _, err := c.run("dashboard"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized before login, got %v", err)
	}

	if _, err := c.run("login", "--password", "wrong"); err == nil {
		t.Fatalf("expected bad password to fail")
	}

	out := c.mustRun("login", "--password", domain.DemoPassword)
	if !strings.Contains(out, "signed in as demo@example.com") {
		t.Fatalf("unexpected login output:\n%s", out)
	}
	if _, err := os.Stat(c.tokenFile); err != nil {
		t.Fatalf("expected token file, got %v", err)
	}

	out = c.mustRun("dashboard", "--range", "week")
	if !strings.Contains(out, "Balance:") || !strings.Contains(out, "CATEGORY") {
		t.Fatalf("unexpected dashboard output:\n%s", out)
	}

	c.mustRun("logout")
	if _, err := os.Stat(c.tokenFile); !os.IsNotExist(err) {
		t.Fatalf("expected token file removed, got %v", err)
	}
	if _, err := c.run("dashboard"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestDashboardRejectsUnknownRange(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	if _, err := c.run("dashboard", "--range", "year"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestKanbanGroupsByCategory(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("kanban", "--month", "2025-12", "--type", "income")

	salary := strings.Index(out, "== Salary")
	gift := strings.Index(out, "== Gift")
	refund := strings.Index(out, "== Refund")
	if salary < 0 || gift < 0 || refund < 0 {
		t.Fatalf("expected three income columns, got:\n%s", out)
	}
	if !(salary < gift && gift < refund) {
		t.Fatalf("expected columns ordered by total, got:\n%s", out)
	}
	if strings.Contains(out, "Rent") {
		t.Fatalf("expected expenses filtered out, got:\n%s", out)
	}
}

func TestReportMonthlyJSON(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("--json", "report", "monthly", "--month", "2025-11")

	var report monthlyReportJSON
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if report.Summary.Month != "Nov 2025" {
		t.Fatalf("expected Nov 2025, got %s", report.Summary.Month)
	}
	if len(report.Days) != 6 {
		t.Fatalf("expected 6 days, got %d", len(report.Days))
	}
	if report.Days[0].Date != "2025-11-30" {
		t.Fatalf("expected newest day first, got %s", report.Days[0].Date)
	}
}

func TestStatsFlagPrintsCacheCounters(t *testing.T) {
	c := newCLI(t, newTestServer(t, false))

	out := c.mustRun("--stats", "tx", "show", "t1")

	if !strings.Contains(out, "Lunch") {
		t.Fatalf("expected transaction detail, got:\n%s", out)
	}
	if !strings.Contains(out, "cache statistics:") || !strings.Contains(out, "moneytracker_cache_fetches_total") {
		t.Fatalf("expected cache statistics, got:\n%s", out)
	}
}

func TestWatchReportsInitialState(t *testing.T) {
	srv := newTestServer(t, false)
	c := newCLI(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	cmd := newRootCmd(c.cfg, out)
	cmd.SetArgs([]string{"--token-file", c.tokenFile, "--log-level", "disabled", "watch", "--month", "2025-12", "--no-feed"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		s := out.String()
		if strings.Contains(s, "balance:") && strings.Contains(s, "summary 2025-12:") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for watch output, got:\n%s", s)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("watch did not stop after cancel")
	}
}

func TestTokenFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	if tok, err := readToken(path); err != nil || tok != "" {
		t.Fatalf("expected empty token for missing file, got %q (%v)", tok, err)
	}
	if err := writeToken(path, "abc"); err != nil {
		t.Fatalf("write token: %v", err)
	}
	if tok, err := readToken(path); err != nil || tok != "abc" {
		t.Fatalf("expected abc, got %q (%v)", tok, err)
	}
	if err := removeToken(path); err != nil {
		t.Fatalf("remove token: %v", err)
	}
	if err := removeToken(path); err != nil {
		t.Fatalf("expected second remove to be a no-op, got %v", err)
	}
}
