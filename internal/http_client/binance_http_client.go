package http_client

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"
)

type BinanceHTTPClient struct {
	baseURL  string
	endpoint string
	symbols  []string
	log      *slog.Logger
	client   *http.Client
}

func New(cfg config.Config, log *slog.Logger) *BinanceHTTPClient {
	return &BinanceHTTPClient{
		baseURL:  cfg.BinanceConfig.BaseURL,
		endpoint: cfg.BinanceConfig.Endpoint,
		symbols:  cfg.BinanceConfig.Symbols,
		log:      log,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// GetTicks fetches the current best bid/ask for the configured symbols from
// the bookTicker endpoint.
func (pr *BinanceHTTPClient) GetTicks() ([]models.PriceTick, error) {
	log := pr.log.With("method", "GetTicks")

	reqUrl := fmt.Sprintf("%s%s%s", pr.baseURL, pr.endpoint, pr.addParamsToUrl())

	req, err := http.NewRequest(http.MethodGet, reqUrl, nil)
	if err != nil {
		log.Error("failed to create request", "error", err)
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	resp, err := pr.client.Do(req)
	if err != nil {
		log.Error("failed to make request", "error", err)
		return nil, fmt.Errorf("could not make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("unexpected status code",
			"status", resp.StatusCode,
			"response", string(body))
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	bookTickers := []models.BookTicker{}
	if err := json.NewDecoder(resp.Body).Decode(&bookTickers); err != nil {
		log.Error("failed to decode response", "error", err)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ticks := make([]models.PriceTick, 0, len(bookTickers))
	for _, bookTicker := range bookTickers {
		ticks = append(ticks, bookTicker.Tick())
	}

	return ticks, nil
}

func (pr *BinanceHTTPClient) addParamsToUrl() string {
	params := "?symbols=["
	for i, symbol := range pr.symbols {
		params = fmt.Sprintf("%s\"%s\"", params, symbol)
		if i != len(pr.symbols)-1 {
			params = fmt.Sprintf("%s,", params)
		}
	}
	params = fmt.Sprintf("%s]", params)

	return params
}
