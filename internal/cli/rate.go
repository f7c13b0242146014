package cli

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"milkledger/internal/app"
	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/pricing"
)

// RatePreviewOptions holds flags for the rate preview command.
type RatePreviewOptions struct {
	*RootOptions
	Supplier string
	MilkType string
	Fat      string
	SNF      string
	WeightKg string
}

// NewRateCommand creates the rate command group.
func NewRateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Milk pricing",
	}
	cmd.AddCommand(newRatePreviewCommand(rootOpts))
	return cmd
}

func newRatePreviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RatePreviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Price a milk purchase from its FAT and SNF",
		Long: `Compute the rate and amount a supplier is paid for one delivery, using the
supplier's baseline for the milk type and the milk type's adjustment rates.

Example:
  mqlectl rate preview --supplier SUP-001 --milk-type Cow --fat 4 --snf 8.5 --weight 103.39`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := pricing.Input{Supplier: opts.Supplier, MilkType: opts.MilkType}
			var err error
			if in.Fat, err = parseDecimal("fat", opts.Fat); err != nil {
				return err
			}
			if in.SNF, err = parseDecimal("snf", opts.SNF); err != nil {
				return err
			}
			if in.WeightKg, err = parseDecimal("weight", opts.WeightKg); err != nil {
				return err
			}

			return opts.withBackend(cmd, func(ctx context.Context, b *app.Backend) error {
				res, err := b.Pricing.Compute(ctx, in)
				if err != nil {
					return err
				}
				if opts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				return writeTable(cmd.OutOrStdout(), []string{"FIELD", "VALUE"}, [][]string{
					{"rate model", string(res.RateModel)},
					{"qty litre", res.QtyLitre.StringFixed(3)},
					{"base rate", res.BaseRate.String()},
					{"fat addition", res.FatAddition.String()},
					{"fat deduction", res.FatDeduction.String()},
					{"snf addition", res.SNFAddition.String()},
					{"snf deduction", res.SNFDeduction.String()},
					{"final rate", res.FinalRate.String()},
					{"amount", res.Amount.StringFixed(2)},
					{"rate per litre", res.RatePerLitreDisplay.StringFixed(2)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Supplier, "supplier", "", "supplier code")
	cmd.Flags().StringVar(&opts.MilkType, "milk-type", "", "milk type")
	cmd.Flags().StringVar(&opts.Fat, "fat", "", "FAT percent")
	cmd.Flags().StringVar(&opts.SNF, "snf", "", "SNF percent")
	cmd.Flags().StringVar(&opts.WeightKg, "weight", "", "weight in kg")

	return cmd
}

// parseDecimal treats an empty flag as zero, which pricing reports as missing.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, apperror.NewValidation("invalid decimal").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return d, nil
}
