// README: HTTP rate provider for open exchange-rate style endpoints.
package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"tourquote/internal/types"
)

// HTTPRateProvider expects a JSON body with a "rates" object keyed by ISO code.
type HTTPRateProvider struct {
	URL    string
	Client *http.Client
}

func NewHTTPRateProvider(url string, client *http.Client) *HTTPRateProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRateProvider{URL: url, Client: client}
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (p *HTTPRateProvider) Fetch(ctx context.Context) (map[types.Currency]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fx: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fx: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fx: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fx: decode: %w", err)
	}
	if len(payload.Rates) == 0 {
		return nil, errors.New("fx: empty rates")
	}

	out := make(map[types.Currency]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		out[types.ParseCurrency(code)] = rate
	}
	return out, nil
}
