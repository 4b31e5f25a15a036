package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/Dannykeren/cec-test-tool/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"actionOrNone": func(s string) string {
		if s == "" {
			return "NONE"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CEC Test Tool</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.none { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
button { font-family: monospace; font-size: 1.1em; padding: 0.6em 1.2em; margin-right: 0.6em; cursor: pointer; }
button.power-on { background: #dfd; }
button.power-off { background: #fdd; }
pre { background: #f4f4f4; padding: 0.8em; overflow-x: auto; min-height: 3em; }
input[type=text] { font-family: monospace; width: 60%; padding: 0.4em; }
</style>
</head>
<body>
<h1>CEC Test Tool</h1>

<p>
<button class="power-on" onclick="post('/api/power/on')">Power ON</button>
<button class="power-off" onclick="post('/api/power/off')">Power OFF</button>
<button onclick="get('/api/status')">TV Status</button>
<button onclick="get('/api/scan')">Scan Bus</button>
</p>

<p>
<input type="text" id="custom" placeholder="raw cec-client command, e.g. tx 10:36">
<button onclick="sendCustom()">Send</button>
</p>

<pre id="output">Ready.</pre>

<h2>State</h2>
<table>
<tr><th>Last command</th><td class="{{if eq (actionOrNone .LastAction) "POWER_ON"}}on{{else if eq (actionOrNone .LastAction) "POWER_OFF"}}off{{else}}none{{end}}">{{actionOrNone .LastAction}}</td></tr>
{{if .LastSource}}<tr><th>Source</th><td>{{.LastSource}}</td></tr>{{end}}
<tr><th>CEC</th><td class="{{if .CECReady}}connected{{else}}disconnected{{end}}">{{if .CECReady}}ready{{else}}unknown{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
</table>

<h2>Command Counts</h2>
<table>
<tr><th>Power ON</th><td>{{.Counts.PowerOn}}</td></tr>
<tr><th>Power OFF</th><td>{{.Counts.PowerOff}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>
<tr><th>Cooldown</th><td>{{.Config.CooldownMs}}ms</td></tr>
<tr><th>Buttons</th><td>BCM {{.Config.PinOn}} (on), BCM {{.Config.PinOff}} (off)</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>

<script>
function show(p) {
  p.then(function(r) { return r.json(); })
   .then(function(j) {
     document.getElementById("output").textContent =
       j.status === "success" ? (j.result || "OK") : ("Error: " + j.message);
   })
   .catch(function(e) {
     document.getElementById("output").textContent = "Request failed: " + e;
   });
}
function post(url, body) {
  show(fetch(url, { method: "POST", headers: { "Content-Type": "application/json" },
                    body: body ? JSON.stringify(body) : null }));
}
function get(url) {
  show(fetch(url));
}
function sendCustom() {
  var cmd = document.getElementById("custom").value;
  post("/api/command", { command: cmd });
}
</script>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has an Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
