package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"milkledger/internal/app"
	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/reports"
)

const dateLayout = "2006-01-02"

// LedgerReportOptions holds flags for the ledger report command.
type LedgerReportOptions struct {
	*RootOptions
	From, To    string
	Items       []string
	Warehouses  []string
	VoucherType string
	VoucherNo   string
	BatchNo     string
	IncludeUOM  bool
}

// BalanceOptions holds flags for the ledger balance command.
type BalanceOptions struct {
	*RootOptions
	AsOf        string
	Items       []string
	Warehouses  []string
	IncludeZero bool
}

// NewLedgerCommand creates the ledger command group.
func NewLedgerCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Query the milk quality ledger",
	}
	cmd.AddCommand(newLedgerReportCommand(rootOpts))
	cmd.AddCommand(newLedgerBalanceCommand(rootOpts))
	return cmd
}

func newLedgerReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LedgerReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the milk quality ledger for a period",
		Long: `Print every non-cancelled milk quality ledger entry posted between --from
and --to (inclusive), oldest first.

Example:
  mqlectl ledger report --from 2026-03-01 --to 2026-03-31 --item MILK-COW --format text`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *app.Backend) error {
				return runLedgerReport(ctx, cmd, opts, b.Reports)
			})
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first posting date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last posting date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&opts.Items, "item", nil, "item code (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Warehouses, "warehouse", nil, "warehouse (repeatable)")
	cmd.Flags().StringVar(&opts.VoucherType, "voucher-type", "", "voucher type")
	cmd.Flags().StringVar(&opts.VoucherNo, "voucher-no", "", "voucher number")
	cmd.Flags().StringVar(&opts.BatchNo, "batch", "", "batch number")
	cmd.Flags().BoolVar(&opts.IncludeUOM, "include-uom", false, "show the item's stock unit")

	return cmd
}

func runLedgerReport(ctx context.Context, cmd *cobra.Command, opts *LedgerReportOptions, svc *reports.Service) error {
	filter := reports.MilkQualityLedgerFilter{
		ItemCodes:   opts.Items,
		Warehouses:  opts.Warehouses,
		VoucherType: opts.VoucherType,
		VoucherNo:   opts.VoucherNo,
		BatchNo:     opts.BatchNo,
		IncludeUOM:  opts.IncludeUOM,
	}
	var err error
	if filter.FromDate, err = parseDate("from", opts.From); err != nil {
		return err
	}
	if filter.ToDate, err = parseDate("to", opts.To); err != nil {
		return err
	}

	report, err := svc.GetMilkQualityLedger(ctx, filter)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	rows := make([][]string, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		rows = append(rows, []string{
			r.PostingDate.Format(dateLayout), r.PostingTime, r.ItemCode, r.Warehouse,
			r.VoucherType, r.VoucherNo,
			r.QtyInKg.StringFixed(3), r.QtyInLitre.StringFixed(3),
			r.FatPercent.String(), r.SNFPercent.String(),
			r.Fat.StringFixed(3), r.SNF.StringFixed(3),
			r.QtyAfterInKg.StringFixed(3),
		})
	}
	rows = append(rows, []string{
		"", "", "", "", "", "TOTAL",
		report.TotalQtyInKg.StringFixed(3), "", "", "",
		report.TotalFat.StringFixed(3), report.TotalSNF.StringFixed(3), "",
	})
	return writeTable(cmd.OutOrStdout(), []string{
		"DATE", "TIME", "ITEM", "WAREHOUSE", "VOUCHER TYPE", "VOUCHER",
		"KG", "LITRE", "FAT%", "SNF%", "FAT KG", "SNF KG", "BALANCE KG",
	}, rows)
}

func newLedgerBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BalanceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Print stock balances per item and warehouse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *app.Backend) error {
				filter := reports.StockBalanceReportFilter{
					ItemCodes:   opts.Items,
					Warehouses:  opts.Warehouses,
					ExcludeZero: !opts.IncludeZero,
				}
				if opts.AsOf != "" {
					asOf, err := parseDate("as-of", opts.AsOf)
					if err != nil {
						return err
					}
					asOf = asOf.Add(24*time.Hour - time.Nanosecond)
					filter.AsOfDate = &asOf
				}

				report, err := b.Reports.GetStockBalance(ctx, filter)
				if err != nil {
					return err
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				rows := make([][]string, 0, len(report.Items))
				for _, it := range report.Items {
					rows = append(rows, []string{it.ItemCode, it.Warehouse, it.Quantity.String(), it.StockUOM})
				}
				return writeTable(cmd.OutOrStdout(), []string{"ITEM", "WAREHOUSE", "QTY", "UOM"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&opts.AsOf, "as-of", "", "balance date (YYYY-MM-DD, default now)")
	cmd.Flags().StringSliceVar(&opts.Items, "item", nil, "item code (repeatable)")
	cmd.Flags().StringSliceVar(&opts.Warehouses, "warehouse", nil, "warehouse (repeatable)")
	cmd.Flags().BoolVar(&opts.IncludeZero, "include-zero", false, "show zero balances")

	return cmd
}

// parseDate leaves an empty value as the zero time so the report can name
// the missing field itself.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}
