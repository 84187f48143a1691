package dashboard

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
)

// handleDashboard renders the tabbed report page. Value boxes and the metric
// table are rendered server-side; the charts and the model API docs arrive
// through iframes so each tab stays independently refreshable.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	rep := s.report()

	doc := fmt.Sprintf(dashboardHTML,
		html.EscapeString(rep.ModelName),
		html.EscapeString(rep.ModelDescription),
		rep.ModelAgeDays,
		rep.RecordCount,
		html.EscapeString(rep.ModelVersion),
		rep.GeneratedAt.UTC().Format(time.RFC3339),
		s.metricTable(),
		html.EscapeString(rep.DocsURL),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) metricTable() string {
	rep := s.report()
	var b strings.Builder
	b.WriteString("<table><thead><tr><th>window start</th><th>window end</th><th>metric</th><th>value</th><th>n</th></tr></thead><tbody>")
	for _, row := range rep.Rows {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%.4f</td><td>%d</td></tr>",
			row.Start.UTC().Format(timeAxisFormat),
			row.End.UTC().Format(timeAxisFormat),
			html.EscapeString(row.Metric),
			row.Value,
			row.Count,
		)
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Model monitoring — %[1]s</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f5f5f5; }
  nav { background: #1f2933; padding: 0 16px; }
  nav button { background: none; border: none; color: #cbd2d9; padding: 14px 18px; font-size: 15px; cursor: pointer; }
  nav button.active { color: #fff; border-bottom: 3px solid #35b779; }
  main { padding: 16px; }
  .tab { display: none; }
  .tab.active { display: block; }
  .boxes { display: flex; gap: 16px; flex-wrap: wrap; margin-bottom: 16px; }
  .box { background: #fff; border-radius: 8px; padding: 16px 24px; box-shadow: 0 1px 3px rgba(0,0,0,.15); min-width: 160px; }
  .box .value { font-size: 28px; font-weight: 600; }
  .box .label { color: #616e7c; font-size: 13px; text-transform: uppercase; }
  table { border-collapse: collapse; background: #fff; width: 100%%; }
  th, td { padding: 8px 12px; border-bottom: 1px solid #e4e7eb; text-align: left; }
  iframe { border: none; width: 100%%; background: #fff; }
</style>
</head>
<body>
<nav>
  <button class="active" data-tab="overview">Overview</button>
  <button data-tab="charts">Charts</button>
  <button data-tab="api">Model API</button>
</nav>
<main>
<section id="overview" class="tab active">
  <div class="boxes">
    <div class="box"><div class="value">%[1]s</div><div class="label">model</div></div>
    <div class="box"><div class="value">%[3]d days</div><div class="label">model age</div></div>
    <div class="box"><div class="value">%[4]d</div><div class="label">new observations</div></div>
    <div class="box"><div class="value">%[5]s</div><div class="label">version</div></div>
  </div>
  <p>%[2]s</p>
  <p><small>generated %[6]s</small></p>
  %[7]s
</section>
<section id="charts" class="tab">
  <iframe src="/charts/metrics" height="520"></iframe>
  <iframe src="/charts/counts" height="520"></iframe>
  <iframe src="/charts/scores" height="520"></iframe>
</section>
<section id="api" class="tab">
  <iframe src="%[8]s" height="900"></iframe>
</section>
</main>
<script>
document.querySelectorAll('nav button').forEach(function (btn) {
  btn.addEventListener('click', function () {
    document.querySelectorAll('nav button').forEach(function (b) { b.classList.remove('active'); });
    document.querySelectorAll('.tab').forEach(function (t) { t.classList.remove('active'); });
    btn.classList.add('active');
    document.getElementById(btn.dataset.tab).classList.add('active');
  });
});
</script>
</body>
</html>
`
