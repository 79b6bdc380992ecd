package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"otcbook/internal/metrics"
	"otcbook/internal/orderbook"
	"otcbook/internal/pricing"
)

var (
	ErrStoreUnavailable = errors.New("order store unavailable")
	ErrOrderNotFound    = errors.New("order not found")
)

const (
	NoOrdersText     = "No outstanding orders found"
	NoBuyOrdersText  = "No outstanding BUY orders found"
	NoSellOrdersText = "No outstanding SELL orders found"
)

type OrderRepository interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context, side *orderbook.Side) (int64, error)
	List(ctx context.Context, spec orderbook.SortSpec) ([]*orderbook.Order, error)
	GetByID(ctx context.Context, id int64) (*orderbook.Order, error)
}

type Options struct {
	ReputationURL string
	QueryTimeout  time.Duration
}

type Service struct {
	repo   OrderRepository
	prices pricing.Source
	opts   Options
	logger *zap.Logger
}

func NewService(repo OrderRepository, prices pricing.Source, opts Options, logger *zap.Logger) *Service {
	if prices == nil {
		prices = pricing.NewStatic(nil)
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}
	return &Service{repo: repo, prices: prices, opts: opts, logger: logger}
}

type SummaryLine struct {
	Side  *orderbook.Side `json:"side,omitempty"`
	Count int64           `json:"count"`
	Found bool            `json:"found"`
	Text  string          `json:"text"`
}

type Listing struct {
	Rows      []FormattedRow `json:"rows"`
	Empty     bool           `json:"empty"`
	EmptyText string         `json:"empty_text,omitempty"`
}

type Page struct {
	Sort    orderbook.SortSpec       `json:"sort"`
	Links   orderbook.ColumnLinkPlan `json:"links"`
	Summary []SummaryLine            `json:"summary"`
	Listing *Listing                 `json:"listing"`
}

func (s *Service) CountOrders(ctx context.Context, side *orderbook.Side) (int64, error) {
	return s.repo.Count(ctx, side)
}

// Summary - три счётчика: все, BUY, SELL. Ошибка запроса или ноль
// превращаются в текст "No outstanding ... found". Ошибка возвращается
// только при потере соединения с хранилищем (ErrStoreUnavailable).
func (s *Service) Summary(ctx context.Context) ([]SummaryLine, error) {
	buy, sell := orderbook.SideBuy, orderbook.SideSell
	sides := []*orderbook.Side{nil, &buy, &sell}

	lines := make([]SummaryLine, len(sides))
	for i, side := range sides {
		line, err := s.summaryLine(ctx, side)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}

func (s *Service) summaryLine(ctx context.Context, side *orderbook.Side) (SummaryLine, error) {
	line := SummaryLine{Side: side}
	label := "total"
	if side != nil {
		label = string(*side)
	}

	n, err := s.repo.Count(ctx, side)
	if err != nil {
		if isConnectionError(err) {
			s.logger.Error("order store connection lost", zap.String("side", label), zap.Error(err))
			return line, ErrStoreUnavailable
		}
		s.logger.Warn("count query failed", zap.String("side", label), zap.Error(err))
		line.Text = emptyCountText(side)
		return line, nil
	}
	metrics.OutstandingOrders.WithLabelValues(label).Set(float64(n))

	if n <= 0 {
		line.Text = emptyCountText(side)
		return line, nil
	}

	line.Count = n
	line.Found = true
	if side == nil {
		line.Text = formatCount(n) + " outstanding orders."
	} else {
		line.Text = formatCount(n) + " outstanding " + string(*side) + " orders."
	}
	return line, nil
}

func emptyCountText(side *orderbook.Side) string {
	if side == nil {
		return NoOrdersText
	}
	switch *side {
	case orderbook.SideBuy:
		return NoBuyOrdersText
	case orderbook.SideSell:
		return NoSellOrdersText
	}
	return NoOrdersText
}

// ListOrders: сбой запроса или пустая таблица дают пустой список с
// текстом NoOrdersText. Ошибка только при потере соединения.
func (s *Service) ListOrders(ctx context.Context, spec orderbook.SortSpec) (*Listing, error) {
	orders, err := s.repo.List(ctx, spec)
	if err != nil {
		if isConnectionError(err) {
			s.logger.Error("order store connection lost", zap.Stringer("sortby", spec.Column), zap.Error(err))
			return nil, ErrStoreUnavailable
		}
		s.logger.Warn("list query failed", zap.Stringer("sortby", spec.Column), zap.Error(err))
		return emptyListing(), nil
	}
	if len(orders) == 0 {
		return emptyListing(), nil
	}

	f := formatter{reputationURL: s.opts.ReputationURL, indexer: s.indexer(ctx)}
	rows := make([]FormattedRow, 0, len(orders))
	for i, o := range orders {
		rows = append(rows, f.row(i, o))
	}
	return &Listing{Rows: rows}, nil
}

func emptyListing() *Listing {
	return &Listing{Rows: []FormattedRow{}, Empty: true, EmptyText: NoOrdersText}
}

func (s *Service) indexer(ctx context.Context) pricing.Indexer {
	ix, err := s.prices.Indexer(ctx)
	if err != nil || ix == nil {
		s.logger.Warn("price index unavailable, showing raw prices", zap.Error(err))
		return pricing.Identity{}
	}
	return ix
}

// Page собирает всю страницу. Ошибка только одна - недоступно хранилище
// (до или во время запросов), тогда страница не отдаётся целиком.
func (s *Service) Page(ctx context.Context, params orderbook.RequestParams) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Error("order store connection failed", zap.Error(err))
		return nil, ErrStoreUnavailable
	}

	spec := orderbook.Resolve(params)
	page := &Page{
		Sort:  spec,
		Links: orderbook.LinkPlan(spec),
	}

	// Запросы независимы и ничего не меняют, можно параллельно
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines, err := s.Summary(gctx)
		page.Summary = lines
		return err
	})
	g.Go(func() error {
		listing, err := s.ListOrders(gctx, spec)
		page.Listing = listing
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*FormattedRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.QueryTimeout)
	defer cancel()

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		if isConnectionError(err) {
			s.logger.Error("order store connection failed", zap.Error(err))
			return nil, ErrStoreUnavailable
		}
		return nil, err
	}

	f := formatter{reputationURL: s.opts.ReputationURL, indexer: s.indexer(ctx)}
	row := f.row(0, o)
	return &row, nil
}

func isConnectionError(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
