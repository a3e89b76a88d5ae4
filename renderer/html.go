package renderer

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var converter = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
{{if .Refresh}}<meta http-equiv="refresh" content="{{.Refresh}}">{{end}}
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; margin-bottom: 1rem; }
th, td { padding: .25rem .75rem; border-bottom: 1px solid #ddd; }
blockquote { color: #b00020; margin-left: 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// HTML converts markdown to an HTML fragment.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HTMLPage converts markdown to a standalone page that reloads itself every refresh,
// or never when refresh is zero.
func HTMLPage(title, markdown string, refresh time.Duration) (string, error) {
	body, err := HTML(markdown)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title   string
		Refresh int
		Body    template.HTML
	}{title, int(refresh.Seconds()), template.HTML(body)})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
