package share

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"aibox/internal/tabular"
)

var pageTemplate = template.Must(template.New("share").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>AI-in-a-Box • {{.Kind}}</title>
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <style>
    body { font-family: -apple-system, Segoe UI, Roboto, Arial, sans-serif; margin: 24px; color: #222; }
    .wrap { max-width: 1100px; margin: 0 auto; }
    h1 { font-size: 22px; margin: 0 0 8px; }
    .sub { color: #666; margin-bottom: 16px; }
    table { border-collapse: collapse; width: 100%; font-size: 13px; }
    th, td { border: 1px solid #e5e7eb; padding: 8px 10px; }
    th { background: #f8fafc; text-align: left; position: sticky; top: 0; }
    .note { margin-top: 10px; color: #6b7280; }
    .pill { display:inline-block; padding: 2px 8px; border-radius: 9999px; background:#eef2ff; color:#3730a3; font-size:12px; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>AI-in-a-Box • Cleaned {{.KindLower}}</h1>
    <div class="sub">Public preview (read-only) • <span class="pill">{{.Kind}}</span></div>
    <table>
      <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
      <tbody>
      {{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
      {{end}}</tbody>
    </table>
    <p class="note">Showing up to the first {{.Limit}} rows. Download the full file from the app.</p>
  </div>
</body>
</html>
`))

type pageData struct {
	Kind      string
	KindLower string
	Columns   []string
	Rows      [][]string
	Limit     int
}

// RenderPage reads a stored cleaned file back and renders the read-only
// HTML preview, showing at most limit rows.
func RenderPage(filePath, kind string, limit int) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	t, err := tabular.ReadFile(filepath.Base(filePath), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored file: %w", err)
	}

	title := kind
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Kind:      title,
		KindLower: kind,
		Columns:   t.Columns(),
		Rows:      t.Head(limit),
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render share page: %w", err)
	}
	return buf.Bytes(), nil
}
