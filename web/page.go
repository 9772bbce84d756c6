package web

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/phux/phishcheck/app"
)

const pageTitle = "Phishing Link Checker"

type pageData struct {
	Title string
	View  app.View
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"verdictClass": app.VerdictClass,
	"verdictTone":  app.VerdictTone,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 0; background:#f1f5f9; color:#0f172a; }
main { max-width: 640px; margin: 48px auto; padding: 0 16px; }
h1 { font-size: 26px; margin: 0 0 16px; }
.card { background:#fff; border:1px solid #e2e8f0; border-radius:16px; padding:20px; box-shadow:0 1px 2px rgba(15,23,42,0.08); margin-bottom:16px; }
form { display:flex; gap:8px; }
input[type=text] { flex:1; padding:10px 12px; border-radius:10px; border:1px solid #cbd5e1; font-size:15px; }
button { padding:10px 18px; border:none; border-radius:10px; background:#4f46e5; color:#fff; font-size:15px; cursor:pointer; }
button:disabled { background:#94a3b8; cursor:progress; }
.error { color:#b91c1c; background:#fef2f2; border-color:#fecaca; }
.loading { color:#475569; }
.verdict { font-size:20px; font-weight:700; margin:0 0 4px; }
.tone-danger .verdict { color:#dc2626; }
.tone-warning .verdict { color:#d97706; }
.tone-safe .verdict { color:#16a34a; }
.tone-unknown .verdict { color:#475569; }
.url { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; color:#64748b; word-break:break-all; }
.findings { margin:12px 0 0 20px; padding:0; }
@media (prefers-color-scheme: dark) {
	body { background:#0f172a; color:#e2e8f0; }
	.card { background:#1e293b; border-color:#334155; box-shadow:none; }
	.error { background:#450a0a; border-color:#7f1d1d; color:#fecaca; }
}
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<section class="card">
  <form method="post" action="/analyze" onsubmit="var b = this.querySelector('button'); b.disabled = true; b.textContent = 'Analyzing...';">
    <input type="text" name="url" value="{{.View.Input}}" placeholder="Enter a URL to check" autocomplete="off"{{if .View.Busy}} disabled{{end}}>
    <button type="submit"{{if .View.Busy}} disabled{{end}}>{{if .View.Busy}}Analyzing...{{else}}Analyze{{end}}</button>
  </form>
</section>
{{- if eq .View.State "error"}}
<section class="card error" role="alert">{{.View.Message}}</section>
{{- end}}
{{- if .View.Busy}}
<section class="card loading" aria-busy="true">Analyzing...</section>
{{- end}}
{{- with .View.Result}}
<section class="card result verdict-{{verdictClass .Verdict}} tone-{{verdictTone .Verdict}}">
  <p class="verdict">{{.Verdict}}</p>
  <p class="url">{{.URL}}</p>
  <ul class="findings">
  {{- range $.View.Items}}
    <li>{{.}}</li>
  {{- end}}
  </ul>
</section>
{{- end}}
</main>
</body>
</html>
`))

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, http.StatusOK, s.session(c).Snapshot())
}

func (s *Server) handleAnalyzeForm(c *gin.Context) {
	session := s.session(c)
	input := c.PostForm("url")

	result, err := session.Submit(c.Request.Context(), input)
	s.logOutcome(input, result, err)

	status := http.StatusOK
	if errors.Is(err, app.ErrBusy) {
		status = http.StatusConflict
	}

	s.renderPage(c, status, session.Snapshot())
}

func (s *Server) renderPage(c *gin.Context, status int, view app.View) {
	c.HTML(status, "page", pageData{
		Title: pageTitle,
		View:  view,
	})
}
