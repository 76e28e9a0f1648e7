package handlers

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/dashboard"
)

const (
	pageName    = "dashboard.html"
	chartWidth  = 600
	chartHeight = 120
	chartMax    = 3 // highest encoded value
)

var pageTemplate = template.Must(template.New(pageName).Funcs(template.FuncMap{
	"polyline": polyline,
}).Parse(pageHTML))

// polyline renders timeline points as SVG coordinates scaled to the chart box.
func polyline(points []dashboard.Point) string {
	if len(points) == 0 {
		return ""
	}
	step := float64(chartWidth)
	if len(points) > 1 {
		step = float64(chartWidth) / float64(len(points)-1)
	}
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		y := float64(chartHeight) - float64(p.Value)/chartMax*float64(chartHeight)
		fmt.Fprintf(&b, "%.1f,%.1f", float64(p.Index)*step, y)
	}
	return b.String()
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Activity monitor · {{.SubjectID}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.on { color: #c0392b; font-weight: bold; }
.off { color: #27ae60; }
.conn-bad { color: #c0392b; }
svg { border: 1px solid #ccc; }
</style>
</head>
<body>
<h1>Subject {{.SubjectID}}</h1>
<p id="connection" class="{{if not .Connected}}conn-bad{{end}}">Push channel: {{.ConnectionLabel}}</p>
<ul id="indicators">
{{- range .Indicators}}
<li data-field="{{.Field}}">{{.Label}}: <span class="{{if .Active}}on{{else}}off{{end}}">{{.Text}}</span></li>
{{- end}}
</ul>
{{with .LastChange}}<p id="last-change">Last change: {{.}}</p>{{end}}
<h2>Timeline</h2>
<svg width="600" height="120" viewBox="0 0 600 120">
<polyline id="timeline" fill="none" stroke="#2980b9" stroke-width="2" points="{{polyline .Timeline}}"/>
</svg>
<p><span id="timeline-count">{{len .Timeline}}</span> events (phone = 3, sleep = 2, away = 1)</p>
{{with .Summary}}
<h2>Summary {{.Date}}</h2>
{{with .Message}}<p>{{.}}</p>{{end}}
<table>
<tr><td>Sleep</td><td>{{.SleepMinutes}} min</td></tr>
<tr><td>Phone</td><td>{{.PhoneMinutes}} min</td></tr>
<tr><td>Away</td><td>{{.AwayMinutes}} min</td></tr>
<tr><td>Productive</td><td>{{.ProductiveMinutes}} min</td></tr>
<tr><td>Score</td><td>{{.ProductivityScore}}%</td></tr>
</table>
{{end}}
<script>
(function () {
  function render(v) {
    var conn = document.getElementById("connection");
    conn.textContent = "Push channel: " + v.connection_label;
    conn.className = v.connected ? "" : "conn-bad";
    v.indicators.forEach(function (ind) {
      var span = document.querySelector('li[data-field="' + ind.field + '"] span');
      if (span) { span.textContent = ind.text; span.className = ind.active ? "on" : "off"; }
    });
    var n = v.timeline.length, step = n > 1 ? 600 / (n - 1) : 600;
    document.getElementById("timeline").setAttribute("points", v.timeline.map(function (p) {
      return (p.index * step).toFixed(1) + "," + (120 - p.value / 3 * 120).toFixed(1);
    }).join(" "));
    document.getElementById("timeline-count").textContent = n;
  }
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (msg) {
      var env = JSON.parse(msg.data);
      if (env.type === "view") { render(env.data); }
    };
    ws.onclose = function () { setTimeout(connect, 2000); };
  }
  connect();
})();
</script>
</body>
</html>
`
