package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard-io/pulseboard/engine"
)

// ============================================================================
// HTTP API TESTS
// ============================================================================

var salesCSV = strings.Join([]string{
	"region,product,revenue",
	"EMEA,Widget,100",
	"EMEA,Gadget,50",
	"APAC,Widget,200",
	"AMER,Widget,300",
	"",
}, "\n")

func uploadDataset(t *testing.T, srv *Server) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets?name=sales",
		strings.NewReader(salesCSV))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var ds StoredDataset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ds))
	require.NotEmpty(t, ds.ID)
	return ds.ID
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUploadAndSchema(t *testing.T) {
	srv := New()
	id := uploadDataset(t, srv)

	req := httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/schema", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var sch struct {
		Measures   []string `json:"measures"`
		Dimensions []string `json:"dimensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sch))
	assert.Contains(t, sch.Measures, "revenue")
	assert.Contains(t, sch.Dimensions, "region")
	assert.Contains(t, sch.Dimensions, "product")
}

func TestUploadRejectsEmptyCSV(t *testing.T) {
	srv := New()
	req := httptest.NewRequest(http.MethodPost, "/api/datasets",
		strings.NewReader("region,revenue\n"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeKPIsEndpoint(t *testing.T) {
	srv := New()
	id := uploadDataset(t, srv)

	rec := postJSON(t, srv, "/api/datasets/"+id+"/kpis", map[string]any{
		"kpis": []engine.KPIDefinition{{
			Name:        "Total Revenue",
			Calculation: engine.CalcSum,
			Column:      "revenue",
			Format:      engine.FormatCurrency,
		}},
		"filters": engine.FilterSet{"region": {"EMEA"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		KPIs     []engine.KPIResult `json:"kpis"`
		RowCount int                `json:"rowCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.KPIs, 1)
	assert.Equal(t, 150.0, resp.KPIs[0].Value)
	assert.Equal(t, "$150", resp.KPIs[0].FormattedValue)
	assert.Equal(t, 2, resp.RowCount)
}

func TestBuildChartsEndpoint(t *testing.T) {
	srv := New()
	id := uploadDataset(t, srv)

	rec := postJSON(t, srv, "/api/datasets/"+id+"/charts", map[string]any{
		"charts": []engine.ChartDefinition{{
			Title:      "Revenue by Region",
			Type:       engine.ChartBar,
			Measures:   []string{"revenue"},
			Dimensions: []string{"region"},
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Charts []engine.ChartData `json:"charts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Charts, 1)
	require.Len(t, resp.Charts[0].Points, 3)
	// bar charts come back sorted descending by the primary measure
	assert.Equal(t, "AMER", resp.Charts[0].Points[0]["region"])
}

func TestUnknownDatasetIs404(t *testing.T) {
	srv := New()
	rec := postJSON(t, srv, "/api/datasets/ds-9999/kpis", map[string]any{
		"kpis": []engine.KPIDefinition{{Name: "x", Calculation: engine.CalcCount, Column: "*"}},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClearCacheEndpoint(t *testing.T) {
	srv := New()
	id := uploadDataset(t, srv)

	postJSON(t, srv, "/api/datasets/"+id+"/kpis", map[string]any{
		"kpis": []engine.KPIDefinition{{
			Name: "n", Calculation: engine.CalcCount, Column: "*", Format: engine.FormatNumber,
		}},
	})
	require.NotZero(t, srv.engine.Cache().Len())

	req := httptest.NewRequest(http.MethodDelete, "/api/cache", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, srv.engine.Cache().Len())
}

func TestDeleteDataset(t *testing.T) {
	srv := New()
	id := uploadDataset(t, srv)

	req := httptest.NewRequest(http.MethodDelete, "/api/datasets/"+id, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/datasets/"+id+"/schema", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
