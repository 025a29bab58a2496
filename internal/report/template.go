package report

// FigureTemplate is the HTML template for the four-panel analysis figure.
// Embedded as a Go constant so the binary stays self-contained.
const FigureTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: Arial, -apple-system, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.5;
    width: 1200px;
    margin: 0 auto;
    padding: 10px 16px;
  }
  h1 {
    font-size: 16px;
    font-weight: 600;
    text-align: center;
    margin-bottom: 2px;
  }
  .muted { color: var(--muted); font-size: 0.8rem; text-align: center; }

  /* Panel grid */
  .figure-grid {
    display: grid;
    grid-template-columns: 1fr 1fr;
    gap: 4px;
    margin-top: 8px;
  }
  .panel { overflow: hidden; }
  .panel svg { max-width: 100%; height: auto; }

  /* Headlines */
  .headlines {
    margin-top: 16px;
    padding: 12px;
    background: var(--section-bg);
    border-radius: 6px;
  }
  .headlines h2 {
    font-size: 1rem;
    font-weight: 600;
    margin-bottom: 8px;
    padding-bottom: 4px;
    border-bottom: 2px solid var(--accent);
  }
  .headline { margin: 6px 0; font-size: 0.85rem; }
  .headline .source {
    display: inline-block;
    background: var(--accent);
    color: white;
    padding: 0 6px;
    border-radius: 3px;
    font-size: 0.7rem;
    margin-right: 6px;
  }
  .headline a { color: var(--text); text-decoration: none; }
  .headline a:hover { text-decoration: underline; }
  .headline .published { color: var(--muted); font-size: 0.75rem; margin-left: 6px; }

  /* Footer */
  .footer {
    margin-top: 16px;
    padding-top: 8px;
    border-top: 1px solid var(--border);
    font-size: 0.75rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { width: 100%; padding: 8px; }
    .panel { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<h1>{{.Title}}</h1>
<p class="muted">Generated {{.GeneratedAt}}</p>

<!-- ═══════ PANELS ═══════ -->
<div class="figure-grid">
  <div class="panel">{{.CurvePanel}}</div>
  <div class="panel">{{.TrendPanel}}</div>
  <div class="panel">{{.SpreadPanel}}</div>
  <div class="panel">{{.RangePanel}}</div>
</div>

<!-- ═══════ HEADLINES ═══════ -->
{{if .Headlines}}
<div class="headlines">
  <h2>Market Headlines</h2>
  {{range .Headlines}}
  <div class="headline">
    <span class="source">{{.Source}}</span>
    <a href="{{.URL}}">{{.Title}}</a>
    {{if .Published}}<span class="published">{{.Published}}</span>{{end}}
  </div>
  {{end}}
</div>
{{end}}

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p>Data: FRED®, Federal Reserve Bank of St. Louis · curvewatch</p>
</div>

</body>
</html>`
