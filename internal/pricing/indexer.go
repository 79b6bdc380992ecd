// Package pricing нормализует цены ордеров перед отображением.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Indexer применяется к каждой отображаемой цене ровно один раз
type Indexer interface {
	IndexPrice(price decimal.Decimal) decimal.Decimal
}

type IndexerFunc func(decimal.Decimal) decimal.Decimal

func (f IndexerFunc) IndexPrice(price decimal.Decimal) decimal.Decimal { return f(price) }

type Identity struct{}

func (Identity) IndexPrice(price decimal.Decimal) decimal.Decimal { return price }

// Scale умножает цену на коэффициент
type Scale struct {
	Factor decimal.Decimal
}

func (s Scale) IndexPrice(price decimal.Decimal) decimal.Decimal { return price.Mul(s.Factor) }

// Source выдаёт Indexer на один запрос
type Source interface {
	Indexer(ctx context.Context) (Indexer, error)
}

type Static struct {
	Fixed Indexer
}

func NewStatic(ix Indexer) Static {
	if ix == nil {
		ix = Identity{}
	}
	return Static{Fixed: ix}
}

func (s Static) Indexer(context.Context) (Indexer, error) {
	if s.Fixed == nil {
		return Identity{}, nil
	}
	return s.Fixed, nil
}
