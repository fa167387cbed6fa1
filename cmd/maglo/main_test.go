package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/maglo/internal/fixtures"
	"github.com/Veraticus/maglo/internal/model"
	"github.com/Veraticus/maglo/internal/sheets"
	"github.com/Veraticus/maglo/internal/wallet"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is a throwaway data directory with its own config file.
type testEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database:\n  path: %s\nlogging:\n  level: error\n", filepath.Join(dir, "maglo.db"))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0600))
	return &testEnv{t: t, dir: dir, config: cfg}
}

// run executes the CLI with stdin and returns everything it printed.
func (e *testEnv) run(stdin string, args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config, "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run("", args...)
	require.NoError(e.t, err, out)
	return out
}

func (e *testEnv) records(args ...string) []model.Record {
	e.t.Helper()
	out := e.mustRun(append(args, "--json")...)
	records, err := fixtures.DecodeRecords(strings.NewReader(out))
	require.NoError(e.t, err, out)
	return records
}

func recordIDs(records []model.Record) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].ID
	}
	return out
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	assert.Contains(t, env.mustRun("version"), "maglo dev")
}

func TestSeed(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("seed")
	assert.Contains(t, out, "Seeded 7 transactions, 4 invoices and 2 cards")

	out = env.mustRun("seed")
	assert.Contains(t, out, "already has 7 transactions")
}

func TestTransactionsList(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "all newest first", args: nil, want: []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7"}},
		{name: "expenses", args: []string{"--kind", "expense"}, want: []string{"t1", "t3", "t4", "t6"}},
		{name: "category", args: []string{"--category", "Entertainment"}, want: []string{"t4", "t6"}},
		{name: "search recipient", args: []string{"--search", "vault"}, want: []string{"t5"}},
		{name: "date range", args: []string{"--from", "2023-10-20", "--to", "2023-10-22"}, want: []string{"t3", "t4", "t5"}},
		{name: "unparseable bound ignored", args: []string{"--from", "last week", "--kind", "income"}, want: []string{"t2", "t7"}},
		{name: "sorted by amount", args: []string{"--sort", "amount", "--limit", "2"}, want: []string{"t7", "t2"}},
		{name: "ascending page", args: []string{"--asc", "--offset", "1", "--limit", "2"}, want: []string{"t6", "t5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"transactions", "list"}, tt.args...)
			assert.Equal(t, tt.want, recordIDs(env.records(args...)))
		})
	}
}

func TestTransactionsList_Table(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("transactions", "list", "--kind", "income")
	assert.Contains(t, out, "Upwork Freelance")
	assert.Contains(t, out, "+$1250.00")
	assert.Contains(t, out, "Showing 2 of 2 matching (7 total)")

	out = env.mustRun("transactions", "list", "--category", "Entertainment", "--kind", "income")
	assert.Contains(t, out, "No transactions match")
}

func TestTransactionsList_SuggestsCategory(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("transactions", "list", "--category", "Entertainmnet")
	assert.Contains(t, out, `Did you mean "Entertainment"?`)
}

func TestTransactionsList_InvalidFlags(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "transactions", "list", "--kind", "paid")
	assert.Error(t, err)

	_, err = env.run("", "transactions", "list", "--kind", "bogus")
	assert.Error(t, err)

	_, err = env.run("", "transactions", "list", "--sort", "color")
	assert.Error(t, err)
}

func TestInvoicesList(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	assert.Len(t, env.records("invoices", "list"), 4)

	unpaid := env.records("invoices", "list", "--status", "unpaid")
	require.Len(t, unpaid, 2)
	for _, r := range unpaid {
		assert.Equal(t, model.KindPending, r.Kind)
	}

	_, err := env.run("", "invoices", "list", "--status", "expense")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("transactions", "categories")
	assert.Equal(t, "All\nEntertainment\nGroceries\nIncome\nSubscription\nTransfer\n", out)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	var d dashboard
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("summary", "--json")), &d))

	assert.Equal(t, 7, d.Summary.Count)
	assert.True(t, decimal.RequireFromString("4450").Equal(d.Totals.Income))
	assert.True(t, decimal.RequireFromString("226.77").Equal(d.Totals.Expense))
	require.NotEmpty(t, d.Categories)
	assert.Equal(t, "Groceries", d.Categories[0].Category)
	require.Len(t, d.Months, 1)
	assert.Equal(t, "Oct 2023", d.Months[0].Label())
	assert.Equal(t, 2, d.Invoices[model.KindPending].Count)
	assert.Equal(t, 2, d.Wallet.Active)

	out := env.mustRun("summary")
	assert.Contains(t, out, "Savings rate")
	assert.Contains(t, out, "Oct 2023")
	assert.Contains(t, out, "2 active, 0 frozen")
}

func TestTransactionsAdd(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("transactions", "add", "--title", "Blue Bottle", "--amount", "4.50", "--category", "Dining", "--card", "c2", "--date", "2023-10-25")
	assert.Contains(t, out, "Recorded Blue Bottle -$4.50")

	got := env.records("transactions", "list", "--search", "blue bottle")
	require.Len(t, got, 1)
	assert.Equal(t, "c2", got[0].CardID)
	assert.Equal(t, model.KindExpense, got[0].Kind)
	assert.True(t, decimal.RequireFromString("4.5").Equal(got[0].Amount))
	assert.Equal(t, "2023-10-25", got[0].Date.Format("2006-01-02"))
}

func TestTransactionsAdd_Prompts(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out, err := env.run("Cinema\nabc\n18\nEntertainment\n", "transactions", "add")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Amount must be a positive number.")

	got := env.records("transactions", "list", "--search", "cinema")
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].CardID, "defaults to the selected card")
	assert.Equal(t, "Entertainment", got[0].Category)
}

func TestTransactionsAdd_FrozenCard(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	assert.Contains(t, env.mustRun("wallet", "freeze", "c1"), "is now frozen")

	_, err := env.run("", "transactions", "add", "--title", "Snacks", "--amount", "3", "--category", "Groceries", "--card", "c1")
	assert.ErrorIs(t, err, wallet.ErrCardFrozen)

	assert.Contains(t, env.mustRun("wallet", "freeze", "c1"), "is now unfrozen")
}

func TestWallet(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out, err := env.run("Travel\nAlex Morgan\n4111 1111 1111 1234\n0927\n\n", "wallet", "add")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added")

	var cards []model.Card
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("wallet", "list", "--json")), &cards))
	require.Len(t, cards, 3)

	var added *model.Card
	for i := range cards {
		if cards[i].Alias == "Travel" {
			added = &cards[i]
		}
	}
	require.NotNil(t, added)
	assert.Equal(t, "**** **** **** 1234", added.Number)
	assert.Equal(t, "09/27", added.Expiry)
	assert.Equal(t, model.NetworkVisa, added.Network)

	env.mustRun("wallet", "select", added.ID)
	assert.Contains(t, env.mustRun("status"), "Selected card: "+added.ID)

	env.mustRun("wallet", "select")
	assert.Contains(t, env.mustRun("status"), "Selected card: none")

	_, err = env.run("", "wallet", "select", "missing")
	assert.Error(t, err)
}

func TestImportJSON(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(env.dir, "records.json")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, fixtures.EncodeRecords(f, []model.Record{
		{
			ID:       "j1",
			Title:    "Bakery",
			Category: "Groceries",
			Amount:   decimal.RequireFromString("7.25"),
			Date:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			Kind:     model.KindExpense,
			Status:   model.StatusCompleted,
		},
		{
			ID:       "j2",
			Title:    "Logo design",
			Category: "Design",
			Amount:   decimal.RequireFromString("900"),
			Date:     time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			Kind:     model.KindDraft,
		},
	}))
	require.NoError(t, f.Close())

	out := env.mustRun("import", "json", path, "--dry-run")
	assert.Contains(t, out, "Dry run: 2 records would be imported")
	assert.Empty(t, env.records("transactions", "list"))

	out = env.mustRun("import", "json", path, path)
	assert.Contains(t, out, "Imported 2 records from 2 files")
	assert.Equal(t, []string{"j1"}, recordIDs(env.records("transactions", "list")))
	assert.Equal(t, []string{"j2"}, recordIDs(env.records("invoices", "list")))

	assert.Contains(t, env.mustRun("backup", "list"), "(auto)")
}

func TestImport_NoFiles(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("", "import", "ofx", filepath.Join(env.dir, "*.qfx"))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	path := filepath.Join(env.dir, "report.csv")
	env.mustRun("export", "csv", "--output", path, "--details-only", "--kind", "expense")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Date,Title,Kind,Category,Amount"))
	assert.Contains(t, lines[1], "Adobe Creative Cloud")

	out := env.mustRun("export", "csv", "--collection", "invoices")
	assert.Contains(t, out, "Maglo invoices report")

	_, err = env.run("", "export", "csv", "--collection", "cards")
	assert.Error(t, err)
}

func TestRunExport(t *testing.T) {
	env := newTestEnv(t)
	// Also points viper at this environment's database.
	env.mustRun("seed")

	cmd := &cobra.Command{Use: "export"}
	addExportFlags(cmd)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Flags().Set("kind", "income"))
	require.NoError(t, cmd.Flags().Set("title", "October income"))

	writer := sheets.NewMockWriter()
	require.NoError(t, runExport(cmd, writer))

	require.Equal(t, 1, writer.Count())
	report := writer.Last()
	assert.Equal(t, "October income", report.Title)
	assert.Equal(t, []string{"t2", "t7"}, recordIDs(report.Records))
	assert.True(t, decimal.RequireFromString("4450").Equal(report.Summary.Total))
	assert.Contains(t, out.String(), "Exported 2 records (4450.00)")

	writer.Fail(errors.New("quota exceeded"))
	err := runExport(cmd, writer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExportSheets_NotConfigured(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")

	_, err := env.run("", "export", "sheets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestBackups(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("seed")

	out := env.mustRun("backup", "create", "before-cleanup", "-m", "checkpoint")
	assert.Contains(t, out, "Created backup before-cleanup (7 transactions, 4 invoices, 2 cards)")

	env.mustRun("wallet", "freeze", "c2")

	out, err := env.run("n\n", "backup", "restore", "before-cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Restore cancelled.")

	env.mustRun("backup", "restore", "before-cleanup", "--force")
	assert.Contains(t, env.mustRun("wallet", "list"), "active")
	assert.NotContains(t, env.mustRun("wallet", "list"), "frozen")

	assert.Contains(t, env.mustRun("backup", "list"), "checkpoint")
	env.mustRun("backup", "delete", "before-cleanup")
	assert.Contains(t, env.mustRun("backup", "list"), "No backups yet.")
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "ui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maglo login")

	out, err := env.run("alex@example.com\nhunter2\n", "login")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Welcome back, alex@example.com")
	assert.Contains(t, env.mustRun("status"), "Signed in:     yes")

	_, err = env.run("secret\n", "login", "--email", "not-an-email")
	assert.Error(t, err)

	env.mustRun("logout")
	assert.Contains(t, env.mustRun("status"), "Signed in:     no")
}

func TestPrefs(t *testing.T) {
	env := newTestEnv(t)

	assert.Contains(t, env.mustRun("prefs", "theme", "light"), "Theme set to light")
	assert.Contains(t, env.mustRun("prefs", "theme"), "Theme set to dark")

	_, err := env.run("", "prefs", "theme", "sepia")
	assert.Error(t, err)

	assert.Contains(t, env.mustRun("prefs", "sidebar"), "Sidebar closed")
	status := env.mustRun("status")
	assert.Contains(t, status, "Theme:         dark")
	assert.Contains(t, status, "Sidebar:       closed")
}

func TestSetupLogging_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("", "--log-level", "loud", "version")
	assert.Error(t, err)

	_, err = env.run("", "--log-format", "xml", "version")
	assert.Error(t, err)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.5 KiB", formatSize(1536))
	assert.Equal(t, "2.0 MiB", formatSize(2*1024*1024))
}

func TestAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, key := range []string{"SERVICE_ACCOUNT_PATH", "CLIENT_ID", "CLIENT_SECRET", "REFRESH_TOKEN", "SPREADSHEET_ID", "SPREADSHEET_NAME", "TIME_ZONE"} {
		t.Setenv("GOOGLE_SHEETS_"+key, "")
	}

	out := env.mustRun("auth", "status")
	assert.Contains(t, out, "Credentials:   none")
	assert.Contains(t, out, `new "Maglo Ledger" on first export`)

	_, err := env.run("", "auth", "sheets")
	require.Error(t, err)
	assert.ErrorIs(t, err, sheets.ErrNoCredentials)

	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	assert.Contains(t, env.mustRun("auth", "status"), "run 'maglo auth sheets'")

	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-42")
	out = env.mustRun("auth", "status")
	assert.Contains(t, out, "OAuth2 refresh token")
	assert.Contains(t, out, "Spreadsheet:   sheet-42")
}
