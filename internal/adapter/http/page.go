package http

import (
	"html/template"
	"net/url"
	"time"

	"github.com/couchcryptid/homicide-observatory/internal/domain"
	"github.com/couchcryptid/homicide-observatory/internal/render"
)

const pageTitle = "Observatorio de Homicidios en Colombia (2024)"

type chartImage struct {
	Title string
	Src   string
	Alt   string
}

type pageData struct {
	Title          string
	Departments    []string
	Municipalities []string
	Selection      domain.Selection
	RateLabel      string
	Rate           string
	Charts         []chartImage
	ExportURL      string
	TruncationNote string
	GeneratedAt    time.Time
}

func newPageData(snap domain.Snapshot) pageData {
	q := url.Values{}
	q.Set(paramDepartment, snap.Selection.Department)
	q.Set(paramMunicipality, snap.Selection.Municipality)
	query := q.Encode()

	titles := map[render.Chart]string{
		render.ChartComparison:  "Municipio vs. departamento vs. país",
		render.ChartTop:         "Top 10 municipios por homicidios",
		render.ChartBottom:      "Municipios con menos homicidios",
		render.ChartDepartments: "Departamentos con mayor tasa",
		render.ChartMap:         "Mapa de tasas municipales",
	}
	charts := make([]chartImage, 0, len(render.Charts))
	for _, c := range render.Charts {
		src := "/charts/" + string(c) + ".png"
		if c.DependsOnSelection() {
			src += "?" + query
		}
		charts = append(charts, chartImage{Title: titles[c], Src: src, Alt: titles[c]})
	}

	data := pageData{
		Title:          pageTitle,
		Departments:    snap.Departments,
		Municipalities: snap.Municipalities,
		Selection:      snap.Selection,
		RateLabel:      "Tasa de homicidios en " + snap.Selection.Municipality + " (x 100.000 habitantes)",
		Rate:           render.FormatRate(snap.Record.Rate),
		Charts:         charts,
		ExportURL:      "/export/ranking.xlsx",
		GeneratedAt:    snap.GeneratedAt,
	}
	if snap.Scale.Truncated > 0 {
		data.TruncationNote = render.TruncationNote(snap.Scale)
	}
	return data
}

var pageFuncs = template.FuncMap{
	"timestamp": func(t time.Time) string { return t.Format("2006-01-02 15:04:05 MST") },
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0 auto; max-width: 960px; padding: 1rem; color: #222; }
form { display: flex; gap: 1rem; margin-bottom: 1rem; }
label { display: flex; flex-direction: column; font-size: .9rem; }
.metric { border: 1px solid #ddd; border-radius: 6px; padding: .75rem 1rem; margin-bottom: 1rem; }
.metric .value { font-size: 2rem; font-weight: 600; }
figure { margin: 0 0 1.5rem; }
figure img { max-width: 100%; }
footer { color: #777; font-size: .8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="/">
  <label>Departamento
    <select name="departamento" onchange="this.form.submit()">
    {{- range .Departments}}
      <option value="{{.}}"{{if eq . $.Selection.Department}} selected{{end}}>{{.}}</option>
    {{- end}}
    </select>
  </label>
  <label>Municipio
    <select name="municipio" onchange="this.form.submit()">
    {{- range .Municipalities}}
      <option value="{{.}}"{{if eq . $.Selection.Municipality}} selected{{end}}>{{.}}</option>
    {{- end}}
    </select>
  </label>
  <noscript><button type="submit">Ver</button></noscript>
</form>
<div class="metric">
  <div class="label">{{.RateLabel}}</div>
  <div class="value">{{.Rate}}</div>
</div>
{{- range .Charts}}
<figure>
  <figcaption>{{.Title}}</figcaption>
  <img src="{{.Src}}" alt="{{.Alt}}">
</figure>
{{- end}}
{{- with .TruncationNote}}
<p class="note">{{.}}</p>
{{- end}}
<p><a href="{{.ExportURL}}">Descargar ranking (.xlsx)</a></p>
<footer>Generado {{timestamp .GeneratedAt}}</footer>
</body>
</html>
`))
