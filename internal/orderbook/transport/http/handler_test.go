package http

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"otcbook/internal/orderbook"
	"otcbook/internal/orderbook/service"
)

type stubRepo struct {
	orders   []*orderbook.Order
	pingErr  error
	listErr  error
	lastSpec orderbook.SortSpec
}

func (s *stubRepo) Ping(context.Context) error { return s.pingErr }

func (s *stubRepo) Count(_ context.Context, side *orderbook.Side) (int64, error) {
	var n int64
	for _, o := range s.orders {
		if side == nil || o.Side == *side {
			n++
		}
	}
	return n, nil
}

// List возвращает строки как есть, порядок задаёт сам тест
func (s *stubRepo) List(_ context.Context, spec orderbook.SortSpec) ([]*orderbook.Order, error) {
	s.lastSpec = spec
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.orders, nil
}

func (s *stubRepo) GetByID(_ context.Context, id int64) (*orderbook.Order, error) {
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newTestRouter(t *testing.T, repo *stubRepo) http.Handler {
	svc := service.NewService(repo, nil, service.Options{
		ReputationURL: "https://bitcoin-otc.com/viewratingdetail.php",
		QueryTimeout:  time.Second,
	}, zaptest.NewLogger(t))
	h := NewHandler(svc, "#bitcoin-otc order book", zaptest.NewLogger(t))

	r := chi.NewRouter()
	api := chi.NewRouter()
	h.Register(r, api)
	r.Mount("/api", api)
	return r
}

func testOrders() []*orderbook.Order {
	now := time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC)
	return []*orderbook.Order{
		{
			ID: 11, CreatedAt: now, RefreshedAt: now, Side: orderbook.SideBuy,
			Submitter: "<script>alert('x')</script>", Amount: decimal.RequireFromString("5"),
			Thing: "BTC", Price: decimal.RequireFromString("12345.6789"), OtherThing: "USD",
			Notes: "paypal & cash",
		},
		{
			ID: 12, CreatedAt: now, RefreshedAt: now, Side: orderbook.SideSell,
			Submitter: "gribble", Amount: decimal.RequireFromString("1"),
			Thing: "BTC", Price: decimal.RequireFromString("0.001"), OtherThing: "EUR",
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestViewOrderBook_RendersRows(t *testing.T) {
	repo := &stubRepo{orders: testOrders()}
	rec := get(t, newTestRouter(t, repo), "/vieworderbook?sortby=amount&sortorder=DESC")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Equal(t, orderbook.SortSpec{Column: orderbook.ColumnAmount, Direction: orderbook.Desc}, repo.lastSpec)
	assert.Contains(t, body, "<li>2 outstanding orders.</li>")
	assert.Contains(t, body, "<li>1 outstanding BUY orders.</li>")
	assert.Contains(t, body, `<tr class="odd">`)
	assert.Contains(t, body, `<tr class="even">`)
	assert.Contains(t, body, `<a href="/vieworder/11">11</a>`)
	assert.Contains(t, body, `<td class="price">12346</td>`)
	assert.Contains(t, body, `<td class="price">0.001</td>`)
	assert.Contains(t, body, `<td>paypal &amp; cash</td>`)

	// активная колонка amount с DESC снова предлагает ASC
	assert.Contains(t, body, `href="/vieworderbook?sortby=amount&amp;sortorder=ASC"`)
}

func TestViewOrderBook_EscapesSubmitter(t *testing.T) {
	rec := get(t, newTestRouter(t, &stubRepo{orders: testOrders()}), "/vieworderbook")
	body := rec.Body.String()

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(&#39;x&#39;)&lt;/script&gt;")
	assert.Contains(t, body, "viewratingdetail.php?nick=%3Cscript%3Ealert%28%27x%27%29%3C%2Fscript%3E")
}

func TestViewOrderBook_DefaultToggle(t *testing.T) {
	rec := get(t, newTestRouter(t, &stubRepo{orders: testOrders()}), "/vieworderbook?sortby=DROP+TABLE+orders")
	body := rec.Body.String()

	assert.Contains(t, body, `href="/vieworderbook?sortby=price&amp;sortorder=DESC"`)
	assert.Contains(t, body, `href="/vieworderbook?sortby=id&amp;sortorder=ASC"`)
	assert.NotContains(t, body, "DROP")
}

func TestViewOrderBook_EmptyStore(t *testing.T) {
	rec := get(t, newTestRouter(t, &stubRepo{}), "/vieworderbook")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<tr><td>No outstanding orders found</td></tr>")
	assert.Contains(t, body, "<li>No outstanding BUY orders found</li>")
	assert.Contains(t, body, "<li>No outstanding SELL orders found</li>")
}

func TestViewOrderBook_StoreDown(t *testing.T) {
	rec := get(t, newTestRouter(t, &stubRepo{pingErr: sql.ErrConnDone}), "/vieworderbook")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<table")
}

func TestViewOrderBook_ConnectionLostDuringList(t *testing.T) {
	repo := &stubRepo{
		orders:  testOrders(),
		listErr: &net.OpError{Op: "read", Net: "tcp", Err: driver.ErrBadConn},
	}
	router := newTestRouter(t, repo)

	rec := get(t, router, "/vieworderbook")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<table")
	assert.NotContains(t, rec.Body.String(), "No outstanding orders found")

	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/api/orders").Code)
}

func TestViewOrder(t *testing.T) {
	router := newTestRouter(t, &stubRepo{orders: testOrders()})

	rec := get(t, router, "/vieworder/12")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2>Order 12</h2>")

	assert.Equal(t, http.StatusNotFound, get(t, router, "/vieworder/99").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/vieworder/abc").Code)
}

func TestAPIListOrders(t *testing.T) {
	rec := get(t, newTestRouter(t, &stubRepo{orders: testOrders()}), "/api/orders?sortby=side&sortorder=ASC")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))

	var resp struct {
		Sort struct {
			Column    string `json:"column"`
			Direction string `json:"direction"`
		} `json:"sort"`
		Links []struct {
			Column    string `json:"column"`
			Direction string `json:"direction"`
		} `json:"links"`
		Summary []struct {
			Count int64 `json:"count"`
		} `json:"summary"`
		Listing struct {
			Rows []struct {
				ID    int64  `json:"id"`
				Price string `json:"price"`
			} `json:"rows"`
			Empty bool `json:"empty"`
		} `json:"listing"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, "side", resp.Sort.Column)
	assert.Equal(t, "ASC", resp.Sort.Direction)
	require.Len(t, resp.Links, 8)
	assert.Equal(t, "side", resp.Links[1].Column)
	assert.Equal(t, "DESC", resp.Links[1].Direction)
	assert.Equal(t, int64(2), resp.Summary[0].Count)
	require.Len(t, resp.Listing.Rows, 2)
	assert.Equal(t, "12346", resp.Listing.Rows[0].Price)
	assert.False(t, resp.Listing.Empty)
}

func TestAPIGetOrder(t *testing.T) {
	router := newTestRouter(t, &stubRepo{orders: testOrders()})

	rec := get(t, router, "/api/orders/11")
	require.Equal(t, http.StatusOK, rec.Code)

	var row map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&row))
	assert.Equal(t, "BUY", row["side"])
	assert.Equal(t, "5", row["amount"])

	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/orders/7").Code)
}
