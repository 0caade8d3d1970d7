package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auction-pricer/internal/data"
	"auction-pricer/internal/inference"
	"auction-pricer/internal/model"
	"auction-pricer/internal/registry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStore struct {
	records []model.AuctionRecord
	err     error
}

func (s *fixedStore) Load(time.Time) ([]model.AuctionRecord, error) {
	return s.records, s.err
}

type fixedFeed struct{}

func (fixedFeed) Load(time.Time) model.MarketData {
	return model.MarketData{
		Copper: model.NewMetalPriceSeries("copper", model.SourceFallback, 800000, nil),
		Zinc:   model.NewMetalPriceSeries("zinc", model.SourceFallback, 300000, nil),
	}
}

type constReg float64

func (c constReg) Predict(map[string]float64) (float64, error) { return float64(c), nil }

// quantileLoader fabricates a regressor per artifact name with a stable
// spread so quantiles come out ordered.
type quantileLoader struct{}

func (quantileLoader) Load(name string) (model.Regressor, error) {
	switch {
	case name == "brass_index_model":
		return constReg(1500), nil
	case strings.HasSuffix(name, "_q5"):
		return constReg(85000), nil
	case strings.HasSuffix(name, "_q90"):
		return constReg(98000), nil
	default:
		return constReg(90000), nil
	}
}

type missingLoader struct{}

func (missingLoader) Load(name string) (model.Regressor, error) {
	return nil, &registry.ModelNotFoundError{Name: name, Path: name + ".json"}
}

func day(s string) time.Time {
	d, err := time.Parse(data.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func sampleRecords() []model.AuctionRecord {
	return []model.AuctionRecord{
		{AuctionDate: day("2025-09-05"), ProductDescription: "14.2 Kg", ProposedRP: 94000, LastBidPrice: 96000, Quantity: 20},
		{AuctionDate: day("2025-09-09"), ProductDescription: "19 Kg", ProposedRP: 95500, LastBidPrice: 97200, Quantity: 24},
		{AuctionDate: day("2025-09-08"), ProductDescription: "SC Valve", ProposedRP: 1300, LastBidPrice: 1350, Quantity: 2},
		{AuctionDate: day("2025-09-10"), ProductDescription: "Liquid Offtake Valve", ProposedRP: 1400, LastBidPrice: 1480, Quantity: 3},
	}
}

func newRouter(store data.Store, loader registry.Loader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reg := registry.New(loader)
	h := NewPredictHandler(store, fixedFeed{}, reg, inference.New(reg))
	router := gin.New()
	router.POST("/api/v1/predict", h.Predict)
	return router
}

func doPredict(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCodeOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestPredictCylinder(t *testing.T) {
	router := newRouter(&fixedStore{records: sampleRecords()}, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"cylinders","quantity":25,"date":"2025-09-12","location":"Gujarat"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ProductGroup string                        `json:"product_group"`
		Quantity     float64                       `json:"quantity"`
		Date         string                        `json:"date"`
		Location     string                        `json:"location"`
		Predictions  map[string]map[string]float64 `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "cylinder", resp.ProductGroup, "plural input normalized")
	assert.Equal(t, 25.0, resp.Quantity)
	assert.Equal(t, "2025-09-12", resp.Date)
	assert.Equal(t, "Gujarat", resp.Location)

	require.Len(t, resp.Predictions, 2)
	for _, target := range []string{"proposed_rp", "last_bid_price"} {
		p := resp.Predictions[target]
		require.Contains(t, p, "q5", target)
		assert.LessOrEqual(t, p["q5"], p["q50"])
		assert.LessOrEqual(t, p["q50"], p["q90"])
		assert.InDelta(t, p["q90"]-p["q50"], p["confidence_interval"], 1e-9)
	}
}

func TestPredictValve(t *testing.T) {
	router := newRouter(&fixedStore{records: sampleRecords()}, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"valve","quantity":3,"date":"2025-09-12","location":"Pune"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ProductGroup string `json:"product_group"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "valve", resp.ProductGroup)
}

func TestPredictValveWithDeadLiveEndpoint(t *testing.T) {
	// A live feed that cannot reach its API degrades to fallback prices;
	// the prediction still succeeds.
	gin.SetMode(gin.TestMode)
	feed := &data.LiveFeed{
		Client:         data.NewMetalsClient("http://127.0.0.1:1", "key", "INR", "XCU", "ZNC"),
		Cache:          data.NewWindowCache(),
		LookbackDays:   30,
		CopperSymbol:   "XCU",
		ZincSymbol:     "ZNC",
		FallbackCopper: 800000,
		FallbackZinc:   300000,
	}
	reg := registry.New(quantileLoader{})
	h := NewPredictHandler(&fixedStore{records: sampleRecords()}, feed, reg, inference.New(reg))
	router := gin.New()
	router.POST("/api/v1/predict", h.Predict)

	w := doPredict(t, router, `{"product_group":"valves","quantity":3,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPredictInvalidGroup(t *testing.T) {
	router := newRouter(&fixedStore{records: sampleRecords()}, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"pipe","quantity":5,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCodeOf(t, w))
}

func TestPredictBrassGroupRejected(t *testing.T) {
	// Brass is an internal model, not a requestable product group.
	router := newRouter(&fixedStore{records: sampleRecords()}, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"brass","quantity":5,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorCodeOf(t, w))
}

func TestPredictBindingErrors(t *testing.T) {
	router := newRouter(&fixedStore{records: sampleRecords()}, quantileLoader{})

	for name, body := range map[string]string{
		"missing quantity":  `{"product_group":"cylinder","date":"2025-09-12","location":"Pune"}`,
		"zero quantity":     `{"product_group":"cylinder","quantity":0,"date":"2025-09-12","location":"Pune"}`,
		"negative quantity": `{"product_group":"cylinder","quantity":-2,"date":"2025-09-12","location":"Pune"}`,
		"missing location":  `{"product_group":"cylinder","quantity":5,"date":"2025-09-12"}`,
		"bad date":          `{"product_group":"cylinder","quantity":5,"date":"12-09-2025","location":"Pune"}`,
		"not json":          `quantity=5`,
	} {
		w := doPredict(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
		assert.Equal(t, "INVALID_REQUEST", errorCodeOf(t, w), name)
	}
}

func TestPredictDataUnavailable(t *testing.T) {
	store := &fixedStore{err: &data.DataUnavailableError{Source: "AuctionData.xlsx", Reason: "cannot open workbook"}}
	router := newRouter(store, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"cylinder","quantity":5,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DATA_UNAVAILABLE", errorCodeOf(t, w))
}

func TestPredictNoHistoricalData(t *testing.T) {
	valveOnly := []model.AuctionRecord{
		{AuctionDate: day("2025-09-08"), ProductDescription: "SC Valve", ProposedRP: 1300, LastBidPrice: 1350, Quantity: 2},
	}
	router := newRouter(&fixedStore{records: valveOnly}, quantileLoader{})

	w := doPredict(t, router, `{"product_group":"cylinder","quantity":5,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NO_HISTORICAL_DATA", errorCodeOf(t, w))
}

func TestPredictModelNotFound(t *testing.T) {
	router := newRouter(&fixedStore{records: sampleRecords()}, missingLoader{})

	w := doPredict(t, router, `{"product_group":"cylinder","quantity":5,"date":"2025-09-12","location":"Pune"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MODEL_NOT_FOUND", errorCodeOf(t, w))
}

func TestListProductGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/product-groups", ListProductGroups)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/product-groups", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ProductGroups []struct {
			Name     string   `json:"name"`
			SKUs     []string `json:"skus"`
			Keywords []string `json:"keywords"`
		} `json:"product_groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.ProductGroups, 2)
	assert.Equal(t, "cylinder", resp.ProductGroups[0].Name)
	assert.Len(t, resp.ProductGroups[0].SKUs, 11)
	assert.Equal(t, "valve", resp.ProductGroups[1].Name)
}
