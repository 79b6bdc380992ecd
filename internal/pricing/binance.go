package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"otcbook/internal/metrics"
)

// TickerClient возвращает последнюю цену символа
type TickerClient interface {
	LastPrice(ctx context.Context, symbol string) (string, error)
}

type binanceTicker struct {
	client *binance.Client
}

// NewBinanceTicker - публичный клиент, ключи не нужны
func NewBinanceTicker() TickerClient {
	return &binanceTicker{client: binance.NewClient("", "")}
}

func (t *binanceTicker) LastPrice(ctx context.Context, symbol string) (string, error) {
	prices, err := t.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return p.Price, nil
		}
	}
	return "", fmt.Errorf("no ticker price returned for %s", symbol)
}

// BinanceSource масштабирует цены по последней цене тикера
type BinanceSource struct {
	ticker TickerClient
	symbol string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewBinanceSource(ticker TickerClient, symbol string, logger *zap.Logger) *BinanceSource {
	s := &BinanceSource{
		ticker: ticker,
		symbol: symbol,
		logger: logger,
	}

	// Настройка circuit breaker
	s.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "binance-price-index",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return s
}

func (s *BinanceSource) Indexer(ctx context.Context) (Indexer, error) {
	result, err := s.cb.Execute(func() (interface{}, error) {
		raw, err := s.ticker.LastPrice(ctx, s.symbol)
		if err != nil {
			return nil, err
		}
		factor, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "parse ticker price %q", raw)
		}
		if !factor.IsPositive() {
			return nil, fmt.Errorf("non-positive ticker price %s for %s", raw, s.symbol)
		}
		return factor, nil
	})
	if err != nil {
		metrics.PriceIndexLookups.WithLabelValues("binance", "error").Inc()
		return nil, errors.Wrapf(err, "price index %s", s.symbol)
	}

	metrics.PriceIndexLookups.WithLabelValues("binance", "ok").Inc()
	return Scale{Factor: result.(decimal.Decimal)}, nil
}

// State нужен для /health
func (s *BinanceSource) State() gobreaker.State {
	return s.cb.State()
}
