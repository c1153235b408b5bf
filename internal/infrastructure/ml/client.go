package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"StartupPredictor/internal/domain"
	"StartupPredictor/internal/ports"
)

const (
	predictPath      = "/predict"
	predictBatchPath = "/predict_csv"
	maxErrorBody     = 512
)

// Client talks to the external startup-outcome prediction service.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Predictor = (*Client)(nil)

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout bounds each request; zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a reusable HTTP client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL reports the origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict posts a single feature vector as JSON.
func (c *Client) Predict(ctx context.Context, vector domain.FeatureVector) (domain.PredictionResult, error) {
	body, err := json.Marshal(vector)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("marshal features: %w", err)
	}

	raw, err := c.post(ctx, predictPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return domain.PredictionResult{}, err
	}

	var result domain.PredictionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("decode prediction: %w", err)
	}
	return result, nil
}

// PredictBatch uploads a CSV file as the multipart field "file".
func (c *Client) PredictBatch(ctx context.Context, fileName string, file io.Reader) (domain.BatchResult, error) {
	if file == nil {
		return domain.BatchResult{}, domain.ErrNoFileSelected
	}
	if fileName == "" {
		fileName = "upload.csv"
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.BatchResult{}, fmt.Errorf("copy csv: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.BatchResult{}, fmt.Errorf("close multipart: %w", err)
	}

	raw, err := c.post(ctx, predictBatchPath, form.FormDataContentType(), &buf)
	if err != nil {
		return domain.BatchResult{}, err
	}

	rows, err := decodeRows(raw)
	if err != nil {
		return domain.BatchResult{}, err
	}
	return domain.BatchResult{FileName: fileName, Rows: rows}, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(payload))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &domain.RequestError{StatusCode: resp.StatusCode, Body: text}
	}

	return payload, nil
}

// decodeRows walks the JSON array with gjson so each row keeps its key order.
func decodeRows(raw []byte) ([]domain.BatchRow, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("decode batch: invalid json")
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsArray() {
		return nil, fmt.Errorf("decode batch: expected array, got %s", doc.Type)
	}

	var (
		rows   []domain.BatchRow
		rowErr error
	)
	doc.ForEach(func(idx, item gjson.Result) bool {
		if !item.IsObject() {
			rowErr = fmt.Errorf("decode batch: row %d is not an object", len(rows))
			return false
		}
		var row domain.BatchRow
		item.ForEach(func(key, value gjson.Result) bool {
			row.Cells = append(row.Cells, domain.Cell{
				Key: key.String(),
				Raw: json.RawMessage(value.Raw),
			})
			return true
		})
		rows = append(rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return rows, nil
}
