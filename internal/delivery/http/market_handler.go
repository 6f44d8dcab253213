package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MarketHandler proxies chart data requests to the Binance public API for
// client-side candlestick rendering. Pure forwarding, no business logic.
type MarketHandler struct {
	httpClient *http.Client
	baseURL    string
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(baseURL string) *MarketHandler {
	return &MarketHandler{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// GetKlines handles GET /api/market/klines
func (h *MarketHandler) GetKlines(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	interval := c.QueryParam("interval")
	limit := c.QueryParam("limit")
	if symbol == "" || interval == "" || limit == "" {
		return BadRequestResponse(c, "missing symbol, interval, or limit query parameters")
	}

	target := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%s",
		h.baseURL, url.QueryEscape(symbol), url.QueryEscape(interval), url.QueryEscape(limit))
	return h.forward(c, target)
}

// GetTicker24h handles GET /api/market/ticker-24h
func (h *MarketHandler) GetTicker24h(c echo.Context) error {
	symbol := c.QueryParam("symbol")
	if symbol == "" {
		return BadRequestResponse(c, "missing symbol query parameter")
	}

	target := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", h.baseURL, url.QueryEscape(symbol))
	return h.forward(c, target)
}

func (h *MarketHandler) forward(c echo.Context, target string) error {
	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, target, nil)
	if err != nil {
		return InternalServerErrorResponse(c, "failed to build upstream request")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		zap.L().Warn("Market data proxy request failed", zap.String("url", target), zap.Error(err))
		return ErrorResponse(c, http.StatusBadGateway, "market data source unavailable")
	}
	defer resp.Body.Close()

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(resp.StatusCode)
	if _, err := io.Copy(c.Response().Writer, resp.Body); err != nil {
		zap.L().Debug("Market data proxy copy aborted", zap.Error(err))
	}
	return nil
}
