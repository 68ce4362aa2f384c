package web

import (
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/pinwatch/internal/status"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>pinwatch</title>
<meta http-equiv="refresh" content="5">
<style>
body { font-family: monospace; margin: 2em; background: #111; color: #ddd; }
table { border-collapse: collapse; margin: 1em 0; }
td, th { border: 1px solid #444; padding: 0.3em 0.8em; text-align: left; }
.on { color: #6c6; }
.off { color: #c66; }
h1 { font-size: 1.2em; }
</style>
</head>
<body>
<h1>pinwatch</h1>
<p>uptime {{.Uptime}} &middot; mqtt {{if .MQTTConnected}}<span class="on">connected</span>{{else}}<span class="off">disconnected</span>{{end}} ({{.Config.Broker}})</p>
<table>
<tr><th>pin</th><th>name</th><th>level</th></tr>
{{range .Pins}}<tr><td>{{.Pin}}</td><td>{{.Name}}</td><td>{{.Level}}</td></tr>
{{end}}</table>
<table>
<tr><th>event</th><th>count</th></tr>
<tr><td>CHANGE</td><td>{{.Counts.Change}}</td></tr>
<tr><td>RISING</td><td>{{.Counts.Rising}}</td></tr>
<tr><td>FALLING</td><td>{{.Counts.Falling}}</td></tr>
<tr><td>SINGLE_PRESS</td><td>{{.Counts.SinglePress}}</td></tr>
<tr><td>DOUBLE_PRESS</td><td>{{.Counts.DoublePress}}</td></tr>
<tr><td>LONG_PRESS</td><td>{{.Counts.LongPress}}</td></tr>
</table>
<p><a href="/index.json">index.json</a></p>
</body>
</html>
`))

type indexData struct {
	status.Snapshot
	Uptime time.Duration
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := indexData{
		Snapshot: snap,
		Uptime:   snap.Uptime().Truncate(time.Second),
	}
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
