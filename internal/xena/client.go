// Package xena is a client for the UCSC Xena data hub query API.
//
// Every call posts a query expression to <host>/data/ and decodes the JSON
// result. The client holds no state besides its HTTP client and is safe for
// concurrent use.
package xena

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Operation names, used in errors, logs and metrics.
const (
	OpFieldCodes              = "field_codes"
	OpDatasetFetch            = "dataset_fetch"
	OpDatasetSamples          = "dataset_samples"
	OpDatasetGeneProbesValues = "dataset_gene_probes_values"
	OpDatasetField            = "dataset_field"
)

// Observer is notified after every hub call.
type Observer interface {
	ObserveHubCall(op string, duration time.Duration, err error)
}

// Client talks to a single hub.
type Client struct {
	host          string
	httpClient    *http.Client
	observer      Observer
	logger        *zerolog.Logger
	slowThreshold time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithObserver registers a call observer, e.g. metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// WithLogger logs every call at debug level and calls slower than
// slowThreshold at warn level. A zero threshold disables slow call logging.
func WithLogger(logger *zerolog.Logger, slowThreshold time.Duration) Option {
	return func(c *Client) {
		c.logger = logger
		c.slowThreshold = slowThreshold
	}
}

// NewClient creates a client for the hub at host, e.g. "https://toil.xenahubs.net".
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the hub host the client queries.
func (c *Client) Host() string {
	return c.host
}

// FieldCode is the code string of one categorical field.
type FieldCode struct {
	Name string `json:"name"`

	// Code is the tab separated label list, nil for non-categorical fields.
	Code *string `json:"code"`
}

// FieldCodes returns the code strings of the named fields of a dataset.
func (c *Client) FieldCodes(ctx context.Context, dataset string, fields []string) ([]FieldCode, error) {
	var out []FieldCode
	if err := c.call(ctx, OpFieldCodes, dataset, buildQuery(fieldCodesQuery, dataset, fields), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DatasetFetch returns, per field, the raw values of the given samples.
// Missing values are NaN. Categorical fields yield integer codes.
func (c *Client) DatasetFetch(ctx context.Context, dataset string, samples, fields []string) ([][]float64, error) {
	var raw [][]*float64
	if err := c.call(ctx, OpDatasetFetch, dataset, buildQuery(datasetFetchQuery, dataset, samples, fields), &raw); err != nil {
		return nil, err
	}

	out := make([][]float64, len(raw))
	for i, row := range raw {
		out[i] = nullableVector(row)
	}
	return out, nil
}

// DatasetSamples returns the sample IDs of a dataset in hub order.
// A nil limit returns every sample.
func (c *Client) DatasetSamples(ctx context.Context, dataset string, limit *int) ([]string, error) {
	var out []string
	if err := c.call(ctx, OpDatasetSamples, dataset, buildQuery(datasetSamplesQuery, dataset, limit), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneProbesValues is the result of DatasetGeneProbesValues.
type GeneProbesValues struct {
	// Probes are the probe names matched for the gene.
	Probes []string

	// Values holds one value vector per probe, aligned to the samples.
	Values [][]float64
}

// DatasetGeneProbesValues returns the values of every probe mapped to gene.
func (c *Client) DatasetGeneProbesValues(ctx context.Context, dataset string, samples []string, gene string) (*GeneProbesValues, error) {
	var raw []json.RawMessage
	if err := c.call(ctx, OpDatasetGeneProbesValues, dataset, buildQuery(datasetGeneProbesValuesQuery, dataset, samples, gene), &raw); err != nil {
		return nil, err
	}

	if len(raw) != 2 {
		return nil, &DecodeError{
			Op:      OpDatasetGeneProbesValues,
			Dataset: dataset,
			Reason:  fmt.Sprintf("expected [position values], got %d elements", len(raw)),
		}
	}

	var position struct {
		Name []string `json:"name"`
	}
	if err := decode(raw[0], &position); err != nil {
		return nil, &DecodeError{Op: OpDatasetGeneProbesValues, Dataset: dataset, Reason: "probe positions", Err: err}
	}

	var values [][]*float64
	if err := decode(raw[1], &values); err != nil {
		return nil, &DecodeError{Op: OpDatasetGeneProbesValues, Dataset: dataset, Reason: "probe values", Err: err}
	}

	result := &GeneProbesValues{
		Probes: position.Name,
		Values: make([][]float64, len(values)),
	}
	for i, row := range values {
		result.Values[i] = nullableVector(row)
	}
	return result, nil
}

// DatasetField returns every field (probe) name of a dataset.
func (c *Client) DatasetField(ctx context.Context, dataset string) ([]string, error) {
	var out []string
	if err := c.call(ctx, OpDatasetField, dataset, buildQuery(datasetFieldQuery, dataset), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// call posts query, decodes the response into out, and reports the call to
// the observer and logger.
func (c *Client) call(ctx context.Context, op, dataset, query string, out interface{}) error {
	start := time.Now()
	err := c.post(ctx, op, dataset, query, out)
	duration := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveHubCall(op, duration, err)
	}

	if c.logger != nil {
		var event *zerolog.Event
		switch {
		case err != nil:
			event = c.logger.Error().Err(err)
		case c.slowThreshold > 0 && duration > c.slowThreshold:
			event = c.logger.Warn()
		default:
			event = c.logger.Debug()
		}
		event.
			Str("op", op).
			Str("dataset", dataset).
			Dur("duration", duration).
			Msg("hub call")
	}

	return err
}

func (c *Client) post(ctx context.Context, op, dataset, query string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/data/", bytes.NewBufferString(query))
	if err != nil {
		return &FetchError{Op: op, Dataset: dataset, Err: err}
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, Dataset: dataset, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{Op: op, Dataset: dataset, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{
			Op:         op,
			Dataset:    dataset,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncate(string(body), 256)),
		}
	}

	if err := decode(body, out); err != nil {
		return &DecodeError{Op: op, Dataset: dataset, Reason: "invalid JSON", Err: err}
	}

	return nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
