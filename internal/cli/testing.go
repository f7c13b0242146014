package cli

import (
	"context"

	"github.com/spf13/cobra"

	"milkledger/internal/app"
	"milkledger/internal/domain/reports"
)

// RawMilkTestingOptions holds flags for the raw milk testing command.
type RawMilkTestingOptions struct {
	*RootOptions
	From, To          string
	QualityInspection string
	PurchaseReceipt   string
	Supplier          string
}

// NewReportCommand creates the report command group.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print lab reports",
	}
	cmd.AddCommand(newRawMilkTestingCommand(rootOpts))
	return cmd
}

func newRawMilkTestingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RawMilkTestingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "raw-milk-testing",
		Short: "Print the readings of submitted quality inspections",
		Long: `Print one row per submitted quality inspection dated between --from and
--to (inclusive) with the tanker, supplier and net weight of its purchase
receipt and one column per raw milk parameter.

Example:
  mqlectl report raw-milk-testing --from 2026-03-01 --to 2026-03-31 --supplier SUP-001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd, func(ctx context.Context, b *app.Backend) error {
				return runRawMilkTesting(ctx, cmd, opts, b.Reports)
			})
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last report date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.QualityInspection, "inspection", "", "quality inspection name")
	cmd.Flags().StringVar(&opts.PurchaseReceipt, "receipt", "", "purchase receipt name")
	cmd.Flags().StringVar(&opts.Supplier, "supplier", "", "supplier code")

	return cmd
}

func runRawMilkTesting(ctx context.Context, cmd *cobra.Command, opts *RawMilkTestingOptions, svc *reports.Service) error {
	filter := reports.RawMilkTestingFilter{
		QualityInspection: opts.QualityInspection,
		PurchaseReceipt:   opts.PurchaseReceipt,
		Supplier:          opts.Supplier,
	}
	var err error
	if filter.FromDate, err = parseDate("from", opts.From); err != nil {
		return err
	}
	if filter.ToDate, err = parseDate("to", opts.To); err != nil {
		return err
	}

	report, err := svc.GetRawMilkTesting(ctx, filter)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	header := []string{"DATE", "INSPECTION", "RECEIPT", "TANKER", "SUPPLIER", "NET WEIGHT", "IN", "OUT", "MBRT TOTAL"}
	header = append(header, report.Parameters...)
	rows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		row := []string{
			r.ReportDate.Format(dateLayout), r.QualityInspection, r.PurchaseReceipt,
			r.TankerNo, r.Supplier, r.NetWeight.StringFixed(3),
			r.InTime, r.OutTime, r.MBRTTotal,
		}
		for _, p := range report.Parameters {
			row = append(row, r.Parameters[p])
		}
		rows = append(rows, row)
	}
	return writeTable(cmd.OutOrStdout(), header, rows)
}
