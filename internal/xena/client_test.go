package xena

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/xenaviz/internal/xena/xenatest"
)

func newTestHub() *xenatest.Hub {
	return &xenatest.Hub{
		Samples: []string{"TCGA-AB-0001", "GTEX-XYZ-01", "TARGET-10-0003"},
		Expression: map[string][]float64{
			"ERBB2": {11.5, math.NaN(), 3.25},
		},
		Genes:     []string{"ERBB2", "TP53", "ERBB2"},
		FieldName: "primary disease or tissue",
		Codes:     []string{"Breast Invasive Carcinoma", "Lung", "Acute Myeloid Leukemia"},
		Phenotype: []float64{0, 1, math.NaN()},
	}
}

func TestBuildQueryFormatsArguments(t *testing.T) {
	limit := 5
	cases := []struct {
		args []interface{}
		want string
	}{
		{[]interface{}{"ds"}, `(f "ds")`},
		{[]interface{}{"ds", []string{"a", "b"}}, `(f "ds" ["a" "b"])`},
		{[]interface{}{"ds", (*int)(nil)}, `(f "ds" nil)`},
		{[]interface{}{"ds", &limit}, `(f "ds" 5)`},
		{[]interface{}{nil, 3}, `(f nil 3)`},
		{[]interface{}{`say "hi" \ there`}, `(f "say \"hi\" \\ there")`},
		{[]interface{}{[]string{}}, `(f [])`},
	}

	for _, tc := range cases {
		if got := buildQuery("f", tc.args...); got != tc.want {
			t.Fatalf("buildQuery(%v): expected %s, got %s", tc.args, tc.want, got)
		}
	}
}

func TestFieldCodesQueryText(t *testing.T) {
	var posted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		posted = string(body)
		_, _ = w.Write([]byte(`[{"name":"primary disease or tissue","code":"A\tB"}]`))
	}))
	defer srv.Close()

	codes, err := NewClient(srv.URL).FieldCodes(context.Background(), "pheno", []string{"primary disease or tissue"})
	if err != nil {
		t.Fatalf("FieldCodes: %v", err)
	}
	if len(codes) != 1 || codes[0].Code == nil || *codes[0].Code != "A\tB" {
		t.Fatalf("unexpected codes %+v", codes)
	}

	want := `((fn [dataset names]
  (query {:select [:P.name [#sql/call [:group_concat :value :order :ordering :separator #sql/call [:chr 9]] :code]]
          :from [[{:select [:field.id :field.name]
                   :from [:field]
                   :join [{:table [[[:name :varchar names]]]} [:= :field.name :T.name]]
                   :where [:= :dataset_id {:select [:id]
                                           :from [:dataset]
                                           :where [:= :name dataset]}]} :P]]
          :left-join [:code [:= :P.id :field_id]]
          :group-by [:P.id]})) "pheno" ["primary disease or tissue"])`
	if posted != want {
		t.Fatalf("unexpected field codes query:\n%s", posted)
	}
}

func TestSanitizeNaN(t *testing.T) {
	in := `[1,NaN,"NaN",-NaN,{"a":"x\"NaN"},NaN]`
	want := `[1,null,"NaN",null,{"a":"x\"NaN"},null]`
	if got := string(sanitizeNaN([]byte(in))); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestClientCalls(t *testing.T) {
	hub := newTestHub()
	srv := xenatest.NewServer(t, hub)
	client := NewClient(srv.URL + "/")
	ctx := context.Background()

	samples, err := client.DatasetSamples(ctx, "expr", nil)
	if err != nil {
		t.Fatalf("DatasetSamples: %v", err)
	}
	if strings.Join(samples, ",") != "TCGA-AB-0001,GTEX-XYZ-01,TARGET-10-0003" {
		t.Fatalf("unexpected samples %v", samples)
	}

	codes, err := client.FieldCodes(ctx, "pheno", []string{"primary disease or tissue"})
	if err != nil {
		t.Fatalf("FieldCodes: %v", err)
	}
	if len(codes) != 1 || codes[0].Code == nil {
		t.Fatalf("expected one code row, got %+v", codes)
	}
	if *codes[0].Code != "Breast Invasive Carcinoma\tLung\tAcute Myeloid Leukemia" {
		t.Fatalf("unexpected code string %q", *codes[0].Code)
	}

	raw, err := client.DatasetFetch(ctx, "pheno", samples, []string{"primary disease or tissue"})
	if err != nil {
		t.Fatalf("DatasetFetch: %v", err)
	}
	if len(raw) != 1 || len(raw[0]) != 3 {
		t.Fatalf("unexpected raw shape %v", raw)
	}
	if raw[0][0] != 0 || raw[0][1] != 1 || !math.IsNaN(raw[0][2]) {
		t.Fatalf("unexpected raw codes %v", raw[0])
	}

	values, err := client.DatasetGeneProbesValues(ctx, "expr", samples, "ERBB2")
	if err != nil {
		t.Fatalf("DatasetGeneProbesValues: %v", err)
	}
	if len(values.Probes) != 1 || values.Probes[0] != "ERBB2" {
		t.Fatalf("unexpected probes %v", values.Probes)
	}
	if len(values.Values) != 1 || values.Values[0][0] != 11.5 || !math.IsNaN(values.Values[0][1]) || values.Values[0][2] != 3.25 {
		t.Fatalf("unexpected values %v", values.Values)
	}

	genes, err := client.DatasetField(ctx, "expr")
	if err != nil {
		t.Fatalf("DatasetField: %v", err)
	}
	if strings.Join(genes, ",") != "ERBB2,TP53,ERBB2" {
		t.Fatalf("unexpected genes %v", genes)
	}

	wantCalls := []string{"dataset_samples", "field_codes", "dataset_fetch", "dataset_gene_probes_values", "dataset_field"}
	if got := hub.Calls(); strings.Join(got, ",") != strings.Join(wantCalls, ",") {
		t.Fatalf("expected calls %v, got %v", wantCalls, got)
	}
}

func TestGeneProbesValuesUnknownGene(t *testing.T) {
	srv := xenatest.NewServer(t, newTestHub())
	client := NewClient(srv.URL)

	values, err := client.DatasetGeneProbesValues(context.Background(), "expr", []string{"a"}, "NOPE")
	if err != nil {
		t.Fatalf("DatasetGeneProbesValues: %v", err)
	}
	if len(values.Probes) != 0 || len(values.Values) != 0 {
		t.Fatalf("expected no probes, got %+v", values)
	}
}

func TestClientHubStatusIsFetchError(t *testing.T) {
	hub := newTestHub()
	hub.Status = http.StatusServiceUnavailable
	srv := xenatest.NewServer(t, hub)

	_, err := NewClient(srv.URL).DatasetSamples(context.Background(), "expr", nil)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", fetchErr.StatusCode)
	}
	if fetchErr.Op != OpDatasetSamples || fetchErr.Dataset != "expr" {
		t.Fatalf("unexpected error context %+v", fetchErr)
	}
}

func TestClientTransportFailureIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).DatasetField(context.Background(), "expr")
	if !IsFetchError(err) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestClientInvalidJSONIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).DatasetField(context.Background(), "expr")
	if !IsDecodeError(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if IsFetchError(err) {
		t.Fatal("decode error must not be classified as fetch error")
	}
}

func TestGeneProbesValuesWrongShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":["ERBB2"]}]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).DatasetGeneProbesValues(context.Background(), "expr", nil, "ERBB2")
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
}

type recordingObserver struct {
	ops  []string
	errs []error
}

func (o *recordingObserver) ObserveHubCall(op string, _ time.Duration, err error) {
	o.ops = append(o.ops, op)
	o.errs = append(o.errs, err)
}

func TestClientNotifiesObserver(t *testing.T) {
	srv := xenatest.NewServer(t, newTestHub())
	observer := &recordingObserver{}
	client := NewClient(srv.URL, WithObserver(observer), WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))

	if _, err := client.DatasetField(context.Background(), "expr"); err != nil {
		t.Fatalf("DatasetField: %v", err)
	}

	if len(observer.ops) != 1 || observer.ops[0] != OpDatasetField {
		t.Fatalf("expected one dataset_field observation, got %v", observer.ops)
	}
	if observer.errs[0] != nil {
		t.Fatalf("expected nil error observation, got %v", observer.errs[0])
	}
}
