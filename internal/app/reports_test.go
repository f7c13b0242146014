package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/domain/documents/purchase_receipt"
	"milkledger/internal/domain/documents/quality_inspection"
	"milkledger/internal/domain/registers/milkquality"
	"milkledger/internal/domain/reports"
)

func TestRawMilkTestingReport(t *testing.T) {
	e := setup(t)

	pr := purchase_receipt.NewPurchaseReceipt("SUP-1")
	pr.TankerNo = "MH-12-4411"
	pr.NetWeight = d("9800")
	pr.AddLine("MILK-COW", "RAW", d("9800")).MilkType = "Cow"
	require.NoError(t, e.c.PurchaseReceipts.Create(e.ctx, pr))

	tested := quality_inspection.NewQualityInspection(quality_inspection.TypeIncoming, "MILK-COW")
	tested.ReferenceType = milkquality.VoucherPurchaseReceipt
	tested.ReferenceName = pr.Name
	tested.InTime, tested.OutTime = "06:10", "06:55"
	tested.MBRTStart, tested.MBRTEnd = "07:00", "10:30"
	tested.AddReading("Fat", d("4.1"))
	tested.AddReading("SNF", d("8.6"))
	tested.Readings = append(tested.Readings, quality_inspection.Reading{
		Specification: "Alcohol", Status: quality_inspection.StatusAccepted,
	})
	require.NoError(t, e.c.QualityInspections.Create(e.ctx, tested))
	_, _, err := e.c.QualityInspections.Submit(e.ctx, tested.Name)
	require.NoError(t, err)

	// Drafts are not reported.
	e.inspect(quality_inspection.TypeIncoming, "MILK-COW", "RAW", "3.9", "8.4")

	filter := reports.RawMilkTestingFilter{FromDate: postingNow, ToDate: postingNow}
	report, err := e.c.Reports.GetRawMilkTesting(e.ctx, filter)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, tested.Name, row.QualityInspection)
	assert.Equal(t, pr.Name, row.PurchaseReceipt)
	assert.Equal(t, "MH-12-4411", row.TankerNo)
	assert.Equal(t, "SUP-1", row.Supplier)
	assert.Equal(t, "Green Valley Farm", row.SupplierName)
	assert.True(t, row.NetWeight.Equal(d("9800")))
	assert.Equal(t, "06:10", row.InTime)
	assert.Equal(t, "03:30", row.MBRTTotal)
	assert.Equal(t, "4.1", row.Parameters["Fat"])
	assert.Equal(t, "8.6", row.Parameters["SNF"])
	assert.Equal(t, "Ok", row.Parameters["Alcohol"])
	assert.Equal(t, "", row.Parameters["MBRT"])

	filter.Supplier = "SUP-9"
	report, err = e.c.Reports.GetRawMilkTesting(e.ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)

	filter.Supplier = ""
	filter.PurchaseReceipt = pr.Name
	report, err = e.c.Reports.GetRawMilkTesting(e.ctx, filter)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 1)

	filter.FromDate = postingNow.AddDate(0, 0, 1)
	filter.ToDate = postingNow.AddDate(0, 0, 1)
	report, err = e.c.Reports.GetRawMilkTesting(e.ctx, filter)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
}
