package service

import (
	"html"
	"html/template"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"otcbook/internal/orderbook"
	"otcbook/internal/pricing"
)

const (
	classOdd  = "odd"
	classEven = "even"
)

// FormattedRow - строка таблицы, готовая к выводу. Поля типа template.HTML
// уже экранированы и повторно не экранируются шаблоном.
type FormattedRow struct {
	ID            int64         `json:"id"`
	DetailURL     string        `json:"detail_url"`
	Side          string        `json:"side"`
	Submitter     template.HTML `json:"submitter"`
	ReputationURL string        `json:"reputation_url"`
	Amount        string        `json:"amount"`
	Thing         template.HTML `json:"thing"`
	Price         string        `json:"price"`
	OtherThing    template.HTML `json:"otherthing"`
	Notes         template.HTML `json:"notes"`
	Class         string        `json:"class"`
	CreatedAt     string        `json:"created_at"`
	RefreshedAt   string        `json:"refreshed_at"`
}

type formatter struct {
	reputationURL string
	indexer       pricing.Indexer
}

func (f formatter) row(i int, o *orderbook.Order) FormattedRow {
	return FormattedRow{
		ID:            o.ID,
		DetailURL:     DetailURL(o.ID),
		Side:          string(o.Side),
		Submitter:     escape(o.Submitter),
		ReputationURL: ReputationURL(f.reputationURL, o.Submitter),
		Amount:        FormatAmount(o.Amount),
		Thing:         escape(o.Thing),
		Price:         FormatPrice(f.indexer.IndexPrice(o.Price)),
		OtherThing:    escape(o.OtherThing),
		Notes:         escape(o.Notes),
		Class:         RowClass(i),
		CreatedAt:     o.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		RefreshedAt:   o.RefreshedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func escape(s string) template.HTML {
	return template.HTML(html.EscapeString(s))
}

func DetailURL(id int64) string {
	return "/vieworder/" + strconv.FormatInt(id, 10)
}

func ReputationURL(base, nick string) string {
	return base + "?nick=" + url.QueryEscape(nick)
}

// FormatPrice - 5 значащих цифр: 12345.6789 -> 12346, 0.001 -> 0.001
func FormatPrice(p decimal.Decimal) string {
	return strconv.FormatFloat(p.InexactFloat64(), 'g', 5, 64)
}

// FormatAmount выводит число как есть, без разделителей разрядов
func FormatAmount(a decimal.Decimal) string {
	return a.String()
}

// RowClass: первая строка odd, вторая even и т.д.
func RowClass(i int) string {
	if i%2 == 0 {
		return classOdd
	}
	return classEven
}

var printer = message.NewPrinter(language.English)

func formatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
