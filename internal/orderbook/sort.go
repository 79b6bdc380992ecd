package orderbook

import (
	"net/url"

	"github.com/lib/pq"
)

type SortColumn int

const (
	ColumnID SortColumn = iota
	ColumnSide
	ColumnSubmitter
	ColumnAmount
	ColumnThing
	ColumnPrice
	ColumnOtherThing
	ColumnNotes
)

type SortDirection string

const (
	Asc  SortDirection = "ASC"
	Desc SortDirection = "DESC"
)

type columnDef struct {
	name  string // значение параметра sortby
	field string // колонка в таблице orders
	label string // текст заголовка
}

// Порядок совпадает с порядком колонок на странице
var columns = [...]columnDef{
	ColumnID:         {name: "id", field: "id", label: "id"},
	ColumnSide:       {name: "side", field: "buysell", label: "type"},
	ColumnSubmitter:  {name: "submitter", field: "nick", label: "submitter"},
	ColumnAmount:     {name: "amount", field: "amount", label: "amount"},
	ColumnThing:      {name: "thing", field: "thing", label: "thing"},
	ColumnPrice:      {name: "price", field: "price", label: "price"},
	ColumnOtherThing: {name: "otherthing", field: "otherthing", label: "otherthing"},
	ColumnNotes:      {name: "notes", field: "notes", label: "notes"},
}

// Columns возвращает все сортируемые колонки в порядке отображения
func Columns() []SortColumn {
	out := make([]SortColumn, len(columns))
	for i := range columns {
		out[i] = SortColumn(i)
	}
	return out
}

// def: значение вне таблицы трактуется как колонка по умолчанию
func (c SortColumn) def() columnDef {
	if c < 0 || int(c) >= len(columns) {
		return columns[DefaultSort.Column]
	}
	return columns[c]
}

func (c SortColumn) String() string { return c.def().name }

// Field возвращает физическое имя колонки
func (c SortColumn) Field() string { return c.def().field }

func (c SortColumn) Label() string { return c.def().label }

func (c SortColumn) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func parseColumn(s string) (SortColumn, bool) {
	for i, def := range columns {
		if def.name == s {
			return SortColumn(i), true
		}
	}
	return 0, false
}

func parseDirection(s string) (SortDirection, bool) {
	switch SortDirection(s) {
	case Asc, Desc:
		return SortDirection(s), true
	}
	return "", false
}

type SortSpec struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
}

var DefaultSort = SortSpec{Column: ColumnPrice, Direction: Asc}

// Resolve сверяет параметры с белым списком. Невалидные значения
// молча заменяются значениями по умолчанию, ошибок нет.
func Resolve(p RequestParams) SortSpec {
	spec := DefaultSort
	if p.SortBy != nil {
		if c, ok := parseColumn(*p.SortBy); ok {
			spec.Column = c
		}
	}
	if p.SortOrder != nil {
		if d, ok := parseDirection(*p.SortOrder); ok {
			spec.Direction = d
		}
	}
	return spec
}

// OrderBy собирает выражение для ORDER BY. Имя колонки берётся только
// из таблицы columns, пользовательский ввод сюда не попадает.
func (s SortSpec) OrderBy() string {
	dir := Asc
	if s.Direction == Desc {
		dir = Desc
	}
	return pq.QuoteIdentifier(s.Column.Field()) + " " + string(dir)
}

type ColumnLink struct {
	Column    SortColumn    `json:"column"`
	Direction SortDirection `json:"direction"`
	Label     string        `json:"label"`
	Href      string        `json:"href"`
}

type ColumnLinkPlan []ColumnLink

// LinkPlan: активная колонка с ASC переключается на DESC,
// все остальные начинают с ASC
func LinkPlan(spec SortSpec) ColumnLinkPlan {
	plan := make(ColumnLinkPlan, 0, len(columns))
	for _, c := range Columns() {
		dir := Asc
		if c == spec.Column && spec.Direction == Asc {
			dir = Desc
		}
		plan = append(plan, ColumnLink{
			Column:    c,
			Direction: dir,
			Label:     c.Label(),
			Href:      SortHref(c, dir),
		})
	}
	return plan
}

// Direction возвращает направление, которое ссылка колонки c запросит следующим
func (p ColumnLinkPlan) Direction(c SortColumn) SortDirection {
	for _, l := range p {
		if l.Column == c {
			return l.Direction
		}
	}
	return Asc
}

const PagePath = "/vieworderbook"

func SortHref(c SortColumn, d SortDirection) string {
	q := url.Values{}
	q.Set("sortby", c.String())
	q.Set("sortorder", string(d))
	return PagePath + "?" + q.Encode()
}
