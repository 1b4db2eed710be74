// Package xenatest provides an in-memory Xena hub for tests.
//
// The fake recognises the five query shapes sent by xena.Client and answers
// them from fixed data. Missing numeric values are written as bare NaN
// tokens, like the real hub does.
package xenatest

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Hub is a fake hub serving one expression dataset and one phenotype field.
type Hub struct {
	// Samples are returned by dataset_samples, in order.
	Samples []string

	// Expression maps gene name to its value vector, aligned to Samples.
	Expression map[string][]float64

	// Genes are returned by dataset_field.
	Genes []string

	// FieldName and Codes describe the categorical phenotype field.
	FieldName string
	Codes     []string

	// Phenotype holds the raw code of every sample, NaN when missing.
	Phenotype []float64

	// Status, when non-zero, is returned for every request with an error body.
	Status int

	mu    sync.Mutex
	calls []string
}

// NewServer starts an httptest server for hub, closed when the test ends.
func NewServer(t testing.TB, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return srv
}

// Calls returns the operations served so far, in order.
func (h *Hub) Calls() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.calls))
	copy(out, h.calls)
	return out
}

func (h *Hub) record(op string) {
	h.mu.Lock()
	h.calls = append(h.calls, op)
	h.mu.Unlock()
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/data/" {
		http.NotFound(w, r)
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	query := string(raw)

	if h.Status != 0 {
		h.record("error")
		http.Error(w, "hub failure", h.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.Contains(query, ":probemap"):
		h.record("dataset_gene_probes_values")
		h.writeGeneValues(w, query)
	case strings.Contains(query, "group_concat"):
		h.record("field_codes")
		h.writeJSON(w, []map[string]interface{}{
			{"name": h.FieldName, "code": strings.Join(h.Codes, "\t")},
		})
	case strings.Contains(query, `"sampleID"`):
		h.record("dataset_samples")
		h.writeJSON(w, h.Samples)
	case strings.Contains(query, "(map :name"):
		h.record("dataset_field")
		h.writeJSON(w, h.Genes)
	case strings.Contains(query, "(fetch"):
		h.record("dataset_fetch")
		_, _ = io.WriteString(w, "["+vector(h.Phenotype)+"]")
	default:
		http.Error(w, "unknown query", http.StatusBadRequest)
	}
}

func (h *Hub) writeGeneValues(w http.ResponseWriter, query string) {
	for gene, values := range h.Expression {
		if strings.HasSuffix(strings.TrimSpace(query), " "+strconv.Quote(gene)+")") {
			name, _ := json.Marshal([]string{gene})
			_, _ = io.WriteString(w, `[{"name":`+string(name)+`,"position":[{"chrom":"chr17","chromstart":1,"chromend":2,"strand":"+"}]},[`+vector(values)+`]]`)
			return
		}
	}
	_, _ = io.WriteString(w, `[{"name":[],"position":[]},[]]`)
}

func (h *Hub) writeJSON(w http.ResponseWriter, v interface{}) {
	_ = json.NewEncoder(w).Encode(v)
}

// vector renders values as a JSON array with bare NaN for missing values.
func vector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			parts[i] = "NaN"
			continue
		}
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
