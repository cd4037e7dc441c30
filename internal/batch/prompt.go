// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/eol-engine/pkg/types"
)

// promptTmpl renders one batch into the prompt document handed to an
// external LLM. The preamble is fixed; one section follows per file.
var promptTmpl = template.Must(template.New("batch").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`You are analyzing text scraped from the web to identify hardware lifecycle dates. Below are scraped pages, one section per source file.

TASK: For each hardware model, identify dates in these categories:
1. End of Life (EOL) - when the product stops being manufactured
2. End of Sales (EOS) - last date for purchasing
3. End of Service/Support - when support or service ends
4. Last Order Date - final date to place orders
5. Retirement/Discontinuation - when the product is withdrawn

For each relevant date found, provide:
- Product/model name
- The exact date
- Category (from the list above)
- A brief context quote
- URL (from the source section)
- Confidence (High/Medium/Low)

Ignore publication dates, copyright years, and other non-lifecycle dates.
If a section contains no lifecycle dates, skip it.

RESPOND IN CSV FORMAT:
"product","date","category","context","url","confidence"

Provide only the CSV data rows, no headers or additional text.
{{range $i, $f := .Files}}
FILE {{inc $i}}:
URL: {{$f.URL}}
MODEL: {{$f.Model}}
CONTENT:
{{$f.Content}}
{{end}}`))

// RenderPrompt produces the prompt text for one batch document.
func RenderPrompt(doc types.BatchDocument) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
