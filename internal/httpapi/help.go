package httpapi

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/russross/blackfriday/v2"
)

//go:embed docs/api.md
var apiReference string

var helpTemplate = template.Must(template.New("help").Funcs(template.FuncMap{
	"markdown": func(text string) template.HTML {
		return template.HTML(blackfriday.Run([]byte(text)))
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Realtor objects API</title></head>
<body>
{{markdown .}}
</body>
</html>
`))

// renderHelp renders the API reference page once; the markdown is
// embedded so the result never changes at runtime.
func renderHelp() []byte {
	var buf bytes.Buffer
	if err := helpTemplate.Execute(&buf, apiReference); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
