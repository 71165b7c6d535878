package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/rs/zerolog"

	engerrors "github.com/tdnghia1906/crypto-strategy-engine/internal/errors"
	"github.com/tdnghia1906/crypto-strategy-engine/pkg/types"
)

// BybitConfig holds the credentials and environment for live execution.
type BybitConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Testnet   bool   `yaml:"testnet"`
	Category  string `yaml:"category"`
}

// BybitExecutor places spot market orders on Bybit. It is the non-simulated
// execution path; order management beyond a single market fill stays out of
// scope.
type BybitExecutor struct {
	client   *bybit_api.Client
	category string
	log      zerolog.Logger
}

// NewBybitExecutor creates a live executor from credentials.
func NewBybitExecutor(cfg BybitConfig, log zerolog.Logger) (*BybitExecutor, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, engerrors.New(engerrors.CategoryConfig, "exchange", "NewBybitExecutor", "bybit api credentials are required")
	}

	baseURL := bybit_api.MAINNET
	if cfg.Testnet {
		baseURL = bybit_api.TESTNET
	}
	category := cfg.Category
	if category == "" {
		category = "spot"
	}

	return &BybitExecutor{
		client:   bybit_api.NewBybitHttpClient(cfg.APIKey, cfg.APISecret, bybit_api.WithBaseURL(baseURL)),
		category: category,
		log:      log.With().Str("component", "exchange").Str("executor", "bybit").Logger(),
	}, nil
}

// Execute places a market order matching the signal.
func (e *BybitExecutor) Execute(ctx context.Context, signal *types.Signal) (*types.ExecutionResult, error) {
	if signal == nil {
		return nil, fmt.Errorf("bybit executor: nil signal")
	}

	side := "Buy"
	if signal.Action == types.ActionSell {
		side = "Sell"
	}

	params := map[string]interface{}{
		"category":  e.category,
		"symbol":    signal.Symbol,
		"side":      side,
		"orderType": "Market",
		"qty":       strconv.FormatFloat(signal.Quantity, 'f', -1, 64),
	}

	result, err := e.client.NewUtaBybitServiceWithParams(params).PlaceOrder(ctx)
	if err != nil {
		return nil, engerrors.Wrap(err, engerrors.CategoryExecution, "exchange", "PlaceOrder")
	}

	orderID, err := parseOrderID(result.Result)
	if err != nil {
		return nil, engerrors.Wrap(err, engerrors.CategoryExecution, "exchange", "PlaceOrder")
	}

	e.log.Info().
		Str("symbol", signal.Symbol).
		Str("side", side).
		Str("order_id", orderID).
		Float64("quantity", signal.Quantity).
		Msg("live order placed")

	return &types.ExecutionResult{
		Success:   true,
		TradeID:   orderID,
		Symbol:    signal.Symbol,
		Action:    signal.Action,
		Price:     signal.Price,
		Quantity:  signal.Quantity,
		Simulated: false,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Name identifies the backend.
func (e *BybitExecutor) Name() string { return "bybit" }

// parseOrderID pulls the order id out of the API's loosely-typed result.
func parseOrderID(result interface{}) (string, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode order response: %w", err)
	}
	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if body.OrderID == "" {
		return "", fmt.Errorf("order response missing orderId")
	}
	return body.OrderID, nil
}
