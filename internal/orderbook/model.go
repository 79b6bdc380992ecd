package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Order - строка таблицы orders, только для чтения
type Order struct {
	ID          int64           `db:"id" json:"id"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	RefreshedAt time.Time       `db:"refreshed_at" json:"refreshed_at"`
	Side        Side            `db:"buysell" json:"side"`
	Submitter   string          `db:"nick" json:"submitter"`
	Host        string          `db:"host" json:"-"` // не показываем
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Thing       string          `db:"thing" json:"thing"`
	Price       decimal.Decimal `db:"price" json:"price"`
	OtherThing  string          `db:"otherthing" json:"otherthing"`
	Notes       string          `db:"notes" json:"notes"`
}

// RequestParams - сырые параметры запроса, nil означает отсутствие
type RequestParams struct {
	SortBy    *string
	SortOrder *string
}
