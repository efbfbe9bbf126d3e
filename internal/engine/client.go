package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/VanshChitransh/ConsultabidV1/internal/conf"
)

// Response is the engine's answer to a process-estimate call.
type Response struct {
	EstimateURL string          `json:"estimateUrl"`
	Summary     *Summary        `json:"summary,omitempty"`
	Extraction  json.RawMessage `json:"extraction,omitempty"`
}

type Summary struct {
	TotalEstimate *float64 `json:"total_estimate,omitempty"`
}

type request struct {
	PdfID uint   `json:"pdfId"`
	R2URL string `json:"r2Url"`
}

// Client talks to the AI estimation engine. The call is slow (minutes) and
// may fail at any point; callers decide whether to retry.
type Client struct {
	baseURL string
	mock    bool
	http    *http.Client
}

func NewClient(cfg conf.EngineConfig) *Client {
	return &Client{
		baseURL: cfg.URL,
		mock:    cfg.Mock,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// ProcessEstimate runs one estimation attempt for an uploaded PDF. No
// retries, no partial results: a definitive Response or an error.
func (c *Client) ProcessEstimate(ctx context.Context, pdfID uint, fileURL string) (*Response, error) {
	if c.mock {
		zero := 0.0
		return &Response{
			EstimateURL: fileURL + "?mock=estimate",
			Summary:     &Summary{TotalEstimate: &zero},
		}, nil
	}

	body, err := json.Marshal(request{PdfID: pdfID, R2URL: fileURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/process-estimate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("ai engine request failed (%d)", resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ai engine returned malformed response: %v", err)
	}
	return &out, nil
}
