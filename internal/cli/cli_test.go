package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/app"
	"milkledger/internal/core/apperror"
	"milkledger/internal/infrastructure/storage/memory"
)

// memoryOpener shares one in-memory backend across command runs.
func memoryOpener(t *testing.T) Opener {
	t.Helper()
	store := memory.New()
	b := &app.Backend{
		Container: app.New(app.MemoryRepositories(store), app.Options{}),
		Store:     store,
		StoreName: "memory",
	}
	return func(ctx context.Context) (*app.Backend, error) { return b, nil }
}

func run(t *testing.T, open Opener, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(nil)
	for _, path := range [][]string{{"seed"}, {"ledger", "report"}, {"ledger", "balance"}, {"rate", "preview"}, {"report", "raw-milk-testing"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "json", format.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, memoryOpener(t), "seed", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestSeedIsRepeatable(t *testing.T) {
	open := memoryOpener(t)

	out, err := run(t, open, "seed")
	require.NoError(t, err)
	var first SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Contains(t, first.Created, "item MILK-COW")
	assert.Contains(t, first.Created, "supplier SUP-001")
	assert.Empty(t, first.Skipped)

	out, err = run(t, open, "seed")
	require.NoError(t, err)
	var second SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, len(first.Created))
}

func TestRatePreview(t *testing.T) {
	open := memoryOpener(t)
	_, err := run(t, open, "seed")
	require.NoError(t, err)

	out, err := run(t, open, "rate", "preview",
		"--supplier", "SUP-001", "--milk-type", "Cow",
		"--fat", "4", "--snf", "8.5", "--weight", "103.39")
	require.NoError(t, err)

	var res struct {
		FinalRate   decimal.Decimal `json:"finalRate"`
		FatAddition decimal.Decimal `json:"fatAddition"`
		Amount      decimal.Decimal `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.FinalRate.Equal(decimal.NewFromInt(41)), res.FinalRate.String())
	assert.True(t, res.FatAddition.Equal(decimal.NewFromInt(1)), res.FatAddition.String())
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(4100)), res.Amount.String())

	out, err = run(t, open, "rate", "preview", "--format", "text",
		"--supplier", "SUP-001", "--milk-type", "Cow",
		"--fat", "4", "--snf", "8.5", "--weight", "103.39")
	require.NoError(t, err)
	assert.Contains(t, out, "final rate")
	assert.Contains(t, out, "4100.00")
}

func TestRatePreviewErrors(t *testing.T) {
	open := memoryOpener(t)
	_, err := run(t, open, "seed")
	require.NoError(t, err)

	_, err = run(t, open, "rate", "preview", "--supplier", "SUP-001", "--milk-type", "Cow", "--weight", "100", "--snf", "8")
	require.Error(t, err)
	assert.True(t, apperror.IsMissingInput(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = run(t, open, "rate", "preview", "--fat", "four")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLedgerReport(t *testing.T) {
	open := memoryOpener(t)

	_, err := run(t, open, "ledger", "report", "--to", "2026-03-31")
	require.Error(t, err)
	assert.True(t, apperror.IsMissingInput(err))

	_, err = run(t, open, "ledger", "report", "--from", "2026-04-01", "--to", "2026-03-31")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err := run(t, open, "ledger", "report", "--from", "2026-03-01", "--to", "2026-03-31")
	require.NoError(t, err)
	var report struct {
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Empty(t, report.Rows)

	out, err = run(t, open, "ledger", "report", "--format", "text", "--from", "2026-03-01", "--to", "2026-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "VOUCHER")
	assert.Contains(t, out, "TOTAL")
}

func TestRawMilkTestingReport(t *testing.T) {
	open := memoryOpener(t)

	_, err := run(t, open, "report", "raw-milk-testing", "--from", "2026-03-01")
	require.Error(t, err)
	assert.True(t, apperror.IsMissingInput(err))

	out, err := run(t, open, "report", "raw-milk-testing", "--from", "2026-03-01", "--to", "2026-03-31")
	require.NoError(t, err)
	var report struct {
		Parameters []string          `json:"parameters"`
		Rows       []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Contains(t, report.Parameters, "Wash RM")
	assert.Empty(t, report.Rows)

	out, err = run(t, open, "report", "raw-milk-testing", "--format", "text",
		"--from", "2026-03-01", "--to", "2026-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "TANKER")
	assert.Contains(t, out, "Channa")
}

func TestLedgerBalanceBadDate(t *testing.T) {
	_, err := run(t, memoryOpener(t), "ledger", "balance", "--as-of", "31/03/2026")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "open backend", assert.AnError)))
	assert.Equal(t, ExitCommandError, GetExitCode(apperror.NewInternal(assert.AnError)))
	assert.Equal(t, ExitFailure, GetExitCode(apperror.NewMissingInput("fat")))
}
