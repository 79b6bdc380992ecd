package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"otcbook/internal/metrics"
	"otcbook/internal/orderbook"
)

const orderColumns = `id, created_at, refreshed_at, buysell, nick, host, amount, thing, price, otherthing, COALESCE(notes, '') AS notes`

type PostgresOrderRepository struct {
	db *sqlx.DB
}

func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) Ping(ctx context.Context) error {
	return errors.Wrap(r.db.PingContext(ctx), "ping order store")
}

// Count считает ордера, side == nil - все ордера
func (r *PostgresOrderRepository) Count(ctx context.Context, side *orderbook.Side) (int64, error) {
	var (
		n     int64
		err   error
		label = "count_total"
	)
	start := time.Now()

	if side == nil {
		err = r.db.GetContext(ctx, &n, `SELECT count(*) FROM orders`)
	} else {
		label = "count_" + strings.ToLower(string(*side))
		err = r.db.GetContext(ctx, &n, `SELECT count(*) FROM orders WHERE buysell = $1`, string(*side))
	}
	observe(label, start, err)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", label)
	}
	return n, nil
}

// List выбирает все ордера в порядке spec. Колонка и направление
// приходят из белого списка orderbook, параметры биндить нельзя
func (r *PostgresOrderRepository) List(ctx context.Context, spec orderbook.SortSpec) ([]*orderbook.Order, error) {
	query := ListQuery(spec)
	start := time.Now()

	var orders []*orderbook.Order
	err := r.db.SelectContext(ctx, &orders, query)
	observe("list", start, err)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*orderbook.Order, error) {
	start := time.Now()

	o := &orderbook.Order{}
	err := r.db.GetContext(ctx, o, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	observe("get", start, err)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return o, nil
}

func ListQuery(spec orderbook.SortSpec) string {
	return `SELECT ` + orderColumns + ` FROM orders ORDER BY ` + spec.OrderBy()
}

func observe(query string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.StoreQueriesTotal.WithLabelValues(query, status).Inc()
	metrics.StoreQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
