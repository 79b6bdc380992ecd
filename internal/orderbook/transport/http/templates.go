package http

import "html/template"

var funcs = template.FuncMap{
	"isNotes": func(label string) bool { return label == "notes" },
}

var pageTmpl = template.Must(template.New("orderbook").Funcs(funcs).Parse(`<html>
 <head>
  <meta http-equiv="Content-type" content="text/html;charset=UTF-8">
  <style>
	body { background-color: #FFFFFF; color: #000000; }
	h2 { text-align: center; }
	table.orderbookdisplay { border: 1px solid #c6c9ff; border-collapse: collapse; }
	table.orderbookdisplay td { border: 1px solid #c6c9ff; padding: 4px; }
	table.orderbookdisplay td.nowrap { white-space: nowrap; }
	table.orderbookdisplay th { background-color: #f0f0ff; padding: 10px; vertical-align: middle; }
	tr.even { background-color: #eeeeec; }
  </style>
  <title>{{.Title}}</title>
 </head>
 <body>
  <h2>{{.Title}}</h2>
  <p>[<a href="/">home</a>]</p>
  <h3>Summary statistics on outstanding orders</h3>
  <ul>
{{- range .Page.Summary}}
   <li>{{.Text}}</li>
{{- end}}
  </ul>
  <h3>List of outstanding orders</h3>
  <table class="orderbookdisplay">
   <tr>
{{- range .Page.Links}}
    <th class="{{.Label}}">{{if isNotes .Label}}&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;{{end}}<a href="{{.Href}}">{{.Label}}</a>{{if isNotes .Label}}&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;&nbsp;{{end}}</th>
{{- end}}
   </tr>
{{- if .Page.Listing.Empty}}
   <tr><td>{{.Page.Listing.EmptyText}}</td></tr>
{{- else}}
{{- range .Page.Listing.Rows}}
   <tr class="{{.Class}}">
    <td><a href="{{.DetailURL}}">{{.ID}}</a></td>
    <td class="type">{{.Side}}</td>
    <td><a href="{{.ReputationURL}}">{{.Submitter}}</a></td>
    <td>{{.Amount}}</td>
    <td class="currency">{{.Thing}}</td>
    <td class="price">{{.Price}}</td>
    <td class="currency">{{.OtherThing}}</td>
    <td>{{.Notes}}</td>
   </tr>
{{- end}}
{{- end}}
  </table>
  <p>[<a href="/">home</a>]</p>
 </body>
</html>
`))

var detailTmpl = template.Must(template.New("order").Parse(`<html>
 <head>
  <meta http-equiv="Content-type" content="text/html;charset=UTF-8">
  <title>{{.Title}} - order {{.Row.ID}}</title>
 </head>
 <body>
  <h2>Order {{.Row.ID}}</h2>
  <p>[<a href="/vieworderbook">order book</a>]</p>
  <table class="orderbookdisplay">
   <tr><th>id</th><td>{{.Row.ID}}</td></tr>
   <tr><th>created at</th><td>{{.Row.CreatedAt}}</td></tr>
   <tr><th>refreshed at</th><td>{{.Row.RefreshedAt}}</td></tr>
   <tr><th>type</th><td>{{.Row.Side}}</td></tr>
   <tr><th>submitter</th><td><a href="{{.Row.ReputationURL}}">{{.Row.Submitter}}</a></td></tr>
   <tr><th>amount</th><td>{{.Row.Amount}}</td></tr>
   <tr><th>thing</th><td>{{.Row.Thing}}</td></tr>
   <tr><th>price</th><td>{{.Row.Price}}</td></tr>
   <tr><th>otherthing</th><td>{{.Row.OtherThing}}</td></tr>
   <tr><th>notes</th><td>{{.Row.Notes}}</td></tr>
  </table>
 </body>
</html>
`))
