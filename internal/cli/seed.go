package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"milkledger/internal/app"
	"milkledger/internal/core/apperror"
	"milkledger/internal/domain/catalogs/item"
	"milkledger/internal/domain/catalogs/milktype"
	"milkledger/internal/domain/catalogs/supplier"
	"milkledger/internal/domain/catalogs/warehouse"
)

// SeedResult lists the reference records touched by seed.
type SeedResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create demo reference data",
		Long: `Create the milk items, milk types, warehouses and a supplier needed to
post purchase receipts. Records that already exist are left untouched, so the
command can be re-run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withBackend(cmd, func(ctx context.Context, b *app.Backend) error {
				res, err := Seed(ctx, b.Container)
				if err != nil {
					return err
				}
				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), res)
				}
				for _, c := range res.Created {
					fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", c)
				}
				for _, s := range res.Skipped {
					fmt.Fprintf(cmd.OutOrStdout(), "exists  %s\n", s)
				}
				return nil
			})
		},
	}
}

// Seed creates the demo reference data in c, skipping existing codes.
func Seed(ctx context.Context, c *app.Container) (*SeedResult, error) {
	res := &SeedResult{Created: []string{}, Skipped: []string{}}
	track := func(label string, err error) error {
		switch {
		case err == nil:
			res.Created = append(res.Created, label)
		case apperror.IsDuplicate(err):
			res.Skipped = append(res.Skipped, label)
		default:
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, it := range seedItems() {
		if err := track("item "+it.Code, c.Items.Create(ctx, it)); err != nil {
			return nil, err
		}
	}
	for _, mt := range seedMilkTypes() {
		if err := track("milk type "+mt.Code, c.MilkTypes.Create(ctx, mt)); err != nil {
			return nil, err
		}
	}
	for _, wh := range seedWarehouses() {
		if err := track("warehouse "+wh.Code, c.Warehouses.Create(ctx, wh)); err != nil {
			return nil, err
		}
	}
	for _, sp := range seedSuppliers() {
		if err := track("supplier "+sp.Code, c.Suppliers.Create(ctx, sp)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func seedItems() []*item.Item {
	cow := item.NewItem("MILK-COW", "Raw Cow Milk", "KG")
	cow.IsMilkType = true
	cow.AddConversion("Litre", decimal.RequireFromString("1.0339"))

	buffalo := item.NewItem("MILK-BUF", "Raw Buffalo Milk", "KG")
	buffalo.IsMilkType = true
	buffalo.AddConversion("Litre", decimal.RequireFromString("1.0330"))

	std := item.NewItem("MILK-STD", "Standardised Milk", "KG")
	std.IsMilkType = true
	std.AddConversion("Litre", decimal.RequireFromString("1.0320"))

	return []*item.Item{cow, buffalo, std}
}

func seedMilkTypes() []*milktype.MilkType {
	cow := milktype.NewMilkType("Cow", milktype.RatePerVolume)
	cow.FatAdditionRate, cow.EnableFatAddition = decimal.NewFromInt(2), true
	cow.FatDeductionRate, cow.EnableFatDeduction = decimal.NewFromInt(2), true
	cow.SNFAdditionRate, cow.EnableSNFAddition = decimal.NewFromInt(1), true
	cow.SNFDeductionRate, cow.EnableSNFDeduction = decimal.NewFromInt(1), true

	buffalo := milktype.NewMilkType("Buffalo", milktype.RatePerFatMass)
	buffalo.SNFDeductionRate, buffalo.EnableSNFDeduction = decimal.RequireFromString("0.5"), true

	return []*milktype.MilkType{cow, buffalo}
}

func seedWarehouses() []*warehouse.Warehouse {
	tank := warehouse.NewWarehouse("TANK-1", "Milk Tank 1", warehouse.TypeTank)
	tank.Capacity = 10000
	return []*warehouse.Warehouse{
		tank,
		warehouse.NewWarehouse("PROD", "Production Floor", warehouse.TypeProduction),
		warehouse.NewWarehouse("STORES", "Finished Goods", warehouse.TypeStore),
	}
}

func seedSuppliers() []*supplier.Supplier {
	farm := supplier.NewSupplier("SUP-001", "Green Valley Farm")
	farm.MilkProfiles = []supplier.MilkProfile{
		{
			MilkType:    "Cow",
			BaselineFat: decimal.RequireFromString("3.5"),
			BaselineSNF: decimal.RequireFromString("8.5"),
			BaseRate:    decimal.NewFromInt(40),
			IsDefault:   true,
		},
		{
			MilkType:    "Buffalo",
			BaselineFat: decimal.NewFromInt(6),
			BaselineSNF: decimal.NewFromInt(9),
			BaseRate:    decimal.NewFromInt(800),
			IsDefault:   true,
		},
	}
	return []*supplier.Supplier{farm}
}
