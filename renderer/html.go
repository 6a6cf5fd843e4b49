package renderer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 2em auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border-bottom: 1px solid #ddd; padding: 4px 8px; }
blockquote { border-left: 3px solid #999; margin-left: 0; padding-left: 1em; color: #444; }
h2 { break-after: avoid; }
@media print { body { margin: 0; max-width: none; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML converts a rendered markdown report into a standalone page ready to
// print from a browser.
func HTML(markdown, title string) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("could not convert markdown: %w", err)
	}
	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("could not write html page: %w", err)
	}
	return out.Bytes(), nil
}
