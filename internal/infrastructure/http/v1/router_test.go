package v1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milkledger/internal/app"
	"milkledger/internal/core/types"
	v1 "milkledger/internal/infrastructure/http/v1"
	"milkledger/internal/infrastructure/http/v1/dto"
	"milkledger/internal/infrastructure/http/v1/middleware"
	"milkledger/internal/infrastructure/storage/memory"
	"milkledger/pkg/logger"
)

var now = time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.New()
	c := app.New(app.MemoryRepositories(store), app.Options{
		Clock: types.FixedClock{At: now},
	})
	return &api{
		t: t,
		router: v1.NewRouter(v1.RouterConfig{
			Container: c,
			Logger:    logger.NewNop(),
			Store:     store,
			StoreName: "memory",
		}),
	}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderActor, "clerk@dairy")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (a *api) seed() {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/catalogs/items", gin.H{
		"code":       "MILK-COW",
		"name":       "Cow milk",
		"stockUom":   "KG",
		"isMilkType": true,
		"uoms":       []gin.H{{"uom": "Litre", "conversionFactor": "1.0339"}},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/catalogs/milk-types", gin.H{
		"code":              "Cow",
		"rateModel":         "Per Litre",
		"fatAdditionRate":   "2",
		"enableFatAddition": true,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/catalogs/suppliers", gin.H{
		"code": "SUP-1",
		"name": "Green Valley Farm",
		"milkProfiles": []gin.H{{
			"milkType": "Cow", "baselineFat": "3.5", "baselineSnf": "8.5", "baseRate": "40", "isDefault": true,
		}},
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"memory": "healthy"}, body["checks"])
}

func TestTraceHeadersAreEchoed(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderTraceID))
}

func TestCatalogCRUD(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodGet, "/api/v1/catalogs/items/MILK-COW", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	it := decode[dto.ItemResponse](t, rec)
	assert.Equal(t, "Cow milk", it.Name)
	assert.True(t, it.IsMilkType)
	require.Len(t, it.Conversions, 1)
	assert.Equal(t, 1, it.Version)

	rec = a.do(http.MethodPost, "/api/v1/catalogs/items", gin.H{"code": "MILK-COW", "stockUom": "KG"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_ENTRY", decode[dto.ErrorResponse](t, rec).Code)

	rec = a.do(http.MethodPut, "/api/v1/catalogs/items/MILK-COW", gin.H{
		"name": "Raw cow milk", "stockUom": "KG", "isMilkType": true, "version": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[dto.ItemResponse](t, rec).Version)

	// Stale version.
	rec = a.do(http.MethodPut, "/api/v1/catalogs/items/MILK-COW", gin.H{
		"name": "Again", "stockUom": "KG", "version": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONCURRENT_MODIFICATION", decode[dto.ErrorResponse](t, rec).Code)

	rec = a.do(http.MethodGet, "/api/v1/catalogs/items?search=cow", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[dto.ListResponse](t, rec).TotalCount)

	rec = a.do(http.MethodDelete, "/api/v1/catalogs/milk-types/Cow", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = a.do(http.MethodGet, "/api/v1/catalogs/milk-types/Cow", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemCodeSeries(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/catalogs/item-groups", gin.H{"code": "FG", "name": "Finished Goods"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/v1/catalogs/item-groups", gin.H{
		"code": "FG-DAIRY", "name": "Dairy Products", "parentItemGroup": "FG",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "FG", decode[dto.ItemGroupResponse](t, rec).ParentGroup)

	rec = a.do(http.MethodPost, "/api/v1/catalogs/item-groups", gin.H{
		"code": "X", "name": "Orphan", "parentItemGroup": "NOPE",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/catalogs/items", gin.H{
		"name": "Paneer", "stockUom": "KG", "itemGroup": "FG-DAIRY",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	it := decode[dto.ItemResponse](t, rec)
	assert.Equal(t, "FG-DP-0001", it.Code)
	assert.Equal(t, "FG-DAIRY", it.ItemGroup)

	rec = a.do(http.MethodPost, "/api/v1/catalogs/items", gin.H{"name": "Curd", "stockUom": "KG"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type transition struct {
	Document  dto.PurchaseReceiptResponse `json:"document"`
	Entries   []map[string]any            `json:"entries"`
	Cancelled int                         `json:"cancelled"`
}

func TestReceiptLifecycle(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodPost, "/api/v1/documents/quality-inspections", gin.H{
		"inspectionType": "Incoming",
		"itemCode":       "MILK-COW",
		"warehouse":      "RAW",
		"readings": []gin.H{
			{"specification": "FAT", "numeric": true, "reading1": "4.0"},
			{"specification": "SNF", "numeric": true, "reading1": "8.5"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	qi := decode[dto.QualityInspectionResponse](t, rec)
	assert.Equal(t, "Draft", qi.Status)
	assert.Equal(t, "clerk@dairy", qi.CreatedBy)

	rec = a.do(http.MethodPost, "/api/v1/documents/purchase-receipts", gin.H{
		"supplier": "SUP-1",
		"submit":   true,
		"items": []gin.H{{
			"itemCode": "MILK-COW", "warehouse": "RAW", "qty": "1000",
			"milkType": "Cow", "qualityInspection": qi.Name,
		}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decode[transition](t, rec)
	assert.Equal(t, "Submitted", submitted.Document.Status)
	require.Len(t, submitted.Entries, 1)
	require.Len(t, submitted.Document.Items, 1)
	assert.True(t, submitted.Document.Items[0].Rate.Equal(decimal.NewFromInt(41)))
	name := submitted.Document.Name

	rec = a.do(http.MethodGet, "/api/v1/registers/milk-quality/entries?voucherNo="+name, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[map[string][]map[string]any](t, rec)["items"]
	require.Len(t, entries, 1)
	assert.Equal(t, "RAW", entries[0]["warehouse"])
	assert.Equal(t, "clerk@dairy", entries[0]["createdBy"])

	// Submitted documents are immutable.
	rec = a.do(http.MethodDelete, "/api/v1/documents/purchase-receipts/"+name, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/documents/purchase-receipts/"+name+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode[transition](t, rec)
	assert.Equal(t, "Cancelled", cancelled.Document.Status)
	assert.Equal(t, 1, cancelled.Cancelled)

	rec = a.do(http.MethodGet, "/api/v1/registers/milk-quality/entries?voucherNo="+name, nil)
	assert.Empty(t, decode[map[string][]map[string]any](t, rec)["items"])

	rec = a.do(http.MethodGet, "/api/v1/registers/milk-quality/entries?includeCancelled=true&voucherNo="+name, nil)
	assert.Len(t, decode[map[string][]map[string]any](t, rec)["items"], 1)

	rec = a.do(http.MethodPost, "/api/v1/documents/purchase-receipts/"+name+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, rec).Code)

	rec = a.do(http.MethodGet, "/api/v1/documents/purchase-receipts/"+name+"/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[map[string][]map[string]any](t, rec)["items"]
	require.Len(t, history, 3)
	assert.Equal(t, "cancel", history[0]["action"])
}

func TestMilkRatePreview(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodPost, "/api/v1/pricing/milk-rate", gin.H{
		"supplier": "SUP-1", "milkType": "Cow", "fat": "4.0", "snf": "8.5", "weightKg": "1000",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	b := decode[struct {
		FinalRate   decimal.Decimal `json:"finalRate"`
		FatAddition decimal.Decimal `json:"fatAddition"`
	}](t, rec)
	assert.True(t, b.FinalRate.Equal(decimal.NewFromInt(41)), "final rate %s", b.FinalRate)
	assert.True(t, b.FatAddition.Equal(decimal.NewFromInt(1)))

	rec = a.do(http.MethodPost, "/api/v1/pricing/milk-rate", gin.H{
		"supplier": "SUP-1", "milkType": "Cow", "snf": "8.5", "weightKg": "1000",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_INPUT", decode[dto.ErrorResponse](t, rec).Code)
}

func TestCompositionQueries(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/composition/snf?fat=4&lr=28", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snf := decode[map[string]decimal.Decimal](t, rec)["snf"]
	assert.True(t, snf.Equal(decimal.RequireFromString("6.74")), "snf %s", snf)

	rec = a.do(http.MethodGet, "/api/v1/composition/last-known?itemCode=MILK-COW&warehouse=RAW&qty=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[dto.CompositionResponse](t, rec)
	assert.True(t, v.FatPercent.IsZero())
	assert.True(t, v.FatMass.IsZero())

	rec = a.do(http.MethodGet, "/api/v1/composition/last-known?itemCode=MILK-COW", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/composition/snf?fat=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/composition/blend", gin.H{"components": []gin.H{
		{"qty": "100", "fatPercent": "4", "snfPercent": "8"},
		{"qty": "300", "fatPercent": "3", "snfPercent": "9"},
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	blend := decode[map[string]decimal.Decimal](t, rec)
	assert.True(t, blend["fatPercent"].Equal(decimal.RequireFromString("3.25")), "fat %s", blend["fatPercent"])
}

func TestMilkQualityLedgerReportRequiresPeriod(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/api/v1/reports/milk-quality-ledger?toDate=2026-03-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_INPUT", decode[dto.ErrorResponse](t, rec).Code)

	rec = a.do(http.MethodGet, "/api/v1/reports/milk-quality-ledger?fromDate=2026-03-31&toDate=2026-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/reports/milk-quality-ledger?fromDate=03/01/2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodGet, "/api/v1/reports/milk-quality-ledger?fromDate=2026-03-01&toDate=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["rows"])
}

func TestRawMilkTestingReport(t *testing.T) {
	a := newAPI(t)
	a.seed()

	rec := a.do(http.MethodPost, "/api/v1/documents/quality-inspections", gin.H{
		"inspectionType": "Incoming",
		"itemCode":       "MILK-COW",
		"warehouse":      "RAW",
		"inTime":         "06:10",
		"mbrtStartTime":  "07:00",
		"mbrtEndTime":    "09:15",
		"submit":         true,
		"readings": []gin.H{
			{"specification": "Fat", "numeric": true, "reading1": "4.0"},
			{"specification": "MBRT", "numeric": false, "readingValue": "2h15m"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/v1/reports/raw-milk-testing?toDate=2026-03-31", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_INPUT", decode[dto.ErrorResponse](t, rec).Code)

	rec = a.do(http.MethodGet, "/api/v1/reports/raw-milk-testing?fromDate=2026-03-01&toDate=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[struct {
		Parameters []string `json:"parameters"`
		Rows       []struct {
			InTime     string            `json:"inTime"`
			MBRTTotal  string            `json:"mbrtTotalTime"`
			Parameters map[string]string `json:"parameters"`
		} `json:"rows"`
	}](t, rec)
	assert.Equal(t, "Temp", report.Parameters[0])
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "06:10", report.Rows[0].InTime)
	assert.Equal(t, "02:15", report.Rows[0].MBRTTotal)
	assert.Equal(t, "4", report.Rows[0].Parameters["Fat"])
	assert.Equal(t, "2h15m", report.Rows[0].Parameters["MBRT"])
}
