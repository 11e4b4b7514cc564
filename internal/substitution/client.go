package substitution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the remote substitution-suggestion service. A failure or
// timeout here aborts the calling workflow; there is no silent fallback to
// an empty suggestion list.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type suggestRequest struct {
	LineID      int     `json:"lineId"`
	ProductCode string  `json:"productCode"`
	Qty         float64 `json:"qty"`
	Name        *string `json:"name,omitempty"`
}

type suggestResponse struct {
	LineID           int   `json:"lineId"`
	SuggestedLineIDs []int `json:"suggestedLineIds"`
}

// Suggest returns the ordered candidate line ids the provider proposes for
// the short item.
func (c *Client) Suggest(ctx context.Context, lineID int, productCode string, qty decimal.Decimal, name *string) ([]int, error) {
	payload, err := json.Marshal(suggestRequest{
		LineID:      lineID,
		ProductCode: productCode,
		Qty:         qty.InexactFloat64(),
		Name:        name,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/substitution/suggest", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("substitution service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("substitution service returned status %d", resp.StatusCode)
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode substitution response: %w", err)
	}

	return out.SuggestedLineIDs, nil
}
