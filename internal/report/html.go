package report

import (
	"bytes"
	"html"

	"github.com/russross/blackfriday/v2"
)

// stylesheet is a small embedded stylesheet so the HTML report is self
// contained and opens cleanly straight off disk, no network fetch needed.
const stylesheet = `
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1a1a1a; }
h1, h2, h3 { color: #0b3d60; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; font-size: 0.9rem; }
th { background: #f2f6fa; }
code { background: #f2f2f2; padding: 0.1rem 0.3rem; border-radius: 3px; }
`

// RenderHTML wraps the Markdown renderer's output in an HTML document (§4.6):
// blackfriday converts the Markdown body, then it is embedded in a minimal
// page shell carrying the stylesheet inline.
func RenderHTML(r *ClusterReport) ([]byte, error) {
	md, err := RenderMarkdown(r)
	if err != nil {
		return nil, err
	}
	body := blackfriday.Run(md, blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.AutoHeadingIDs))

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>Kubernetes Inspection Report: " + html.EscapeString(r.ClusterName) + "</title>\n")
	buf.WriteString("<style>" + stylesheet + "</style>\n</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes(), nil
}
