package router

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/deppfellow/xenaviz/internal/config"
	"github.com/deppfellow/xenaviz/internal/errs"
	"github.com/deppfellow/xenaviz/internal/handler"
	"github.com/deppfellow/xenaviz/internal/model"
	"github.com/deppfellow/xenaviz/internal/repository"
	"github.com/deppfellow/xenaviz/internal/server"
	"github.com/deppfellow/xenaviz/internal/service"
	"github.com/deppfellow/xenaviz/internal/xena/xenatest"
)

func newHub() *xenatest.Hub {
	codes := make([]string, 90)
	for i := range codes {
		codes[i] = fmt.Sprintf("Disease %d", i)
	}
	codes[0] = "Breast Invasive Carcinoma"
	codes[1] = "Lung Adenocarcinoma"
	codes[40] = "Lung"
	codes[89] = "Acute Myeloid Leukemia"

	return &xenatest.Hub{
		Samples: []string{"TCGA-A1", "GTEX-B2", "TCGA-C3", "TARGET-D4"},
		Expression: map[string][]float64{
			"ERBB2": {1.5, 2, math.NaN(), 3.25},
			"TP53":  {10, 20, 30, 40},
		},
		Genes:     []string{"ERBB2", "TP53", "ERBB2"},
		FieldName: config.DefaultDiseaseField,
		Codes:     codes,
		Phenotype: []float64{0, 40, math.NaN(), 89},
	}
}

func newTestRouter(t *testing.T, hub *xenatest.Hub) *echo.Echo {
	t.Helper()

	srv := xenatest.NewServer(t, hub)

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        30,
			CORSAllowedOrigins: []string{"*"},
		},
		Hub: config.HubConfig{
			Host:                srv.URL,
			ExpressionDataset:   config.DefaultExpressionDataset,
			PhenotypeDataset:    config.DefaultPhenotypeDataset,
			DiseaseField:        config.DefaultDiseaseField,
			TCGADiseaseCount:    config.DefaultTCGADiseaseCount,
			TARGETDiseaseOffset: config.DefaultTARGETDiseaseOffset,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	logger := zerolog.Nop()

	s, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	services, err := service.NewService(s, repository.NewRepositories(s))
	if err != nil {
		t.Fatalf("service.NewService: %v", err)
	}

	return NewRouter(s, handler.NewHandlers(s, services))
}

func get(t *testing.T, r *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGreeting(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/")
	if rec.Code != http.StatusOK || rec.Body.String() != "Hello World" {
		t.Fatalf("unexpected greeting %d %q", rec.Code, rec.Body.String())
	}
}

func TestDataDefaults(t *testing.T) {
	hub := newHub()
	rec := get(t, newTestRouter(t, hub), "/data")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `{"Sample":{"0":"TCGA-A1"},"Study":{"0":"TCGA"},"Expression":{"0":1.5},"Disease/Tissue":{"0":"Breast Invasive Carcinoma"}}`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	calls := strings.Join(hub.Calls(), ",")
	if calls != "dataset_samples,dataset_gene_probes_values,field_codes,dataset_fetch" {
		t.Fatalf("unexpected hub calls %s", calls)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}

func TestDataRecordsWithSecondGene(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/data?disease=Lung,%20Acute%20Myeloid%20Leukemia&gene2=TP53&orient=records")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `[{"Sample":"GTEX-B2","Study":"GTEX","Expression":2,"Disease/Tissue":"Lung","Expression2":20},` +
		`{"Sample":"TARGET-D4","Study":"TARGET","Expression":3.25,"Disease/Tissue":"Acute Myeloid Leukemia","Expression2":40}]`
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestDataRepeatedDiseaseParameter(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/data?disease=Lung&disease=Breast%20Invasive%20Carcinoma&orient=records")

	var rows []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(rows) != 2 || rows[0]["Sample"] != "TCGA-A1" || rows[1]["Sample"] != "GTEX-B2" {
		t.Fatalf("expected rows in hub order, got %v", rows)
	}
}

func TestDataEmptyDiseaseSkipsHub(t *testing.T) {
	hub := newHub()
	rec := get(t, newTestRouter(t, hub), "/data?disease=&orient=records")

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty table, got %d %s", rec.Code, rec.Body.String())
	}
	if len(hub.Calls()) != 0 {
		t.Fatalf("expected no hub call, got %v", hub.Calls())
	}
}

func TestDataValidation(t *testing.T) {
	r := newTestRouter(t, newHub())

	for _, target := range []string{"/data?gene=", "/data?orient=split", "/summary?gene="} {
		rec := get(t, r, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		var body errs.HTTPError
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || len(body.Errors) == 0 {
			t.Fatalf("%s: expected field errors, got %s", target, rec.Body.String())
		}
	}
}

func TestDataUnknownGene(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/data?gene=NOPE")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"HUB_RESPONSE_INVALID"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestHubFailure(t *testing.T) {
	hub := newHub()
	hub.Status = http.StatusInternalServerError
	r := newTestRouter(t, hub)

	for _, target := range []string{"/data", "/genes", "/diseases", "/summary", "/data/export"} {
		rec := get(t, r, target)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", target, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"HUB_UNAVAILABLE"`) {
			t.Fatalf("%s: unexpected body %s", target, rec.Body.String())
		}
	}
}

func TestGenes(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/genes")
	if got := strings.TrimSpace(rec.Body.String()); got != `["ERBB2","TP53","ERBB2"]` {
		t.Fatalf("unexpected genes %s", got)
	}
}

func TestDiseases(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/diseases")

	var diseases []string
	if err := json.Unmarshal(rec.Body.Bytes(), &diseases); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(diseases) != 35 {
		t.Fatalf("expected 33 TCGA + 2 TARGET diseases, got %d", len(diseases))
	}
	if diseases[0] != "Breast Invasive Carcinoma" || diseases[33] != "Disease 88" || diseases[34] != "Acute Myeloid Leukemia" {
		t.Fatalf("unexpected diseases %v", diseases)
	}
	for _, d := range diseases {
		if d == "Lung" {
			t.Fatal("GTEx tissues must be excluded")
		}
	}
}

func TestSummary(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/summary?disease=Breast%20Invasive%20Carcinoma,Lung")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var groups []model.GroupSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &groups); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %+v", groups)
	}
	if groups[0].DiseaseTissue != "Breast Invasive Carcinoma" || groups[0].Study != "TCGA" || groups[0].Mean.Float64 != 1.5 {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
	if groups[1].Study != "GTEX" || groups[1].Count != 1 || groups[1].Max.Float64 != 2 {
		t.Fatalf("unexpected second group %+v", groups[1])
	}
}

func TestExport(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/data/export?disease=Lung")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Fatalf("unexpected content type %q", rec.Header().Get(echo.HeaderContentType))
	}
	if rec.Header().Get("Content-Disposition") != "attachment; filename="+handler.ExportFilename {
		t.Fatalf("unexpected disposition %q", rec.Header().Get("Content-Disposition"))
	}
	want := "Sample,Study,Expression,Disease/Tissue\nGTEX-B2,GTEX,2,Lung\n"
	if rec.Body.String() != want {
		t.Fatalf("expected %q, got %q", want, rec.Body.String())
	}
}

func TestStatus(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/status")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Fatalf("unexpected status response %d %s", rec.Code, rec.Body.String())
	}

	hub := newHub()
	hub.Status = http.StatusServiceUnavailable
	rec = get(t, newTestRouter(t, hub), "/status")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"status":"unhealthy"`) {
		t.Fatalf("unexpected status response %d %s", rec.Code, rec.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	r := newTestRouter(t, newHub())
	get(t, r, "/genes")

	rec := get(t, r, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `xenaviz_hub_calls_total{op="dataset_field",outcome="success"} 1`) {
		t.Fatalf("missing hub call metric:\n%s", rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestRouter(t, newHub()), "/nope")
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"code":"NOT_FOUND"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}
