package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
	"mvdan.cc/xurls/v2"
)

const qrSize = 240

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body {
            margin: 0;
            padding: 2em;
            font-family: "Segoe UI", sans-serif;
            background: #f7fbfe;
            color: #333;
        }
        .container {
            max-width: 800px;
            margin: auto;
            background: #fff;
            padding: 2em;
            border-radius: 12px;
            box-shadow: 0 4px 20px rgba(0,0,0,0.05);
        }
        h1 {
            color: #0077cc;
            font-size: 2em;
            margin-bottom: 0.5em;
        }
        .timestamp {
            margin-top: 2em;
            font-size: 0.9em;
            color: #777;
        }
        .contribute-notice {
            margin-top: 1.5em;
            font-size: 0.9em;
            color: #666;
        }
        .live-data {
            margin-top: 1.5em;
            font-size: 0.9em;
            color: #666;
        }
        .live-data img {
            display: block;
            margin-top: 0.5em;
            width: 120px;
            height: 120px;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>🏊 {{.Title}}</h1>
        <div>{{.Body}}</div>
        <div class="contribute-notice">
            Have ideas or want to contribute? Open issues on
            <a href="https://github.com/arianium/rws_data_ingester" target="_blank">GitHub</a>
            to help improve this service.
        </div>
{{- if .QR}}
        <div class="live-data">
            Scan for live measurements:
            <img src="{{.QR}}" alt="QR code with live data link">
        </div>
{{- end}}
        <div class="timestamp">Last updated: {{.Timestamp}}</div>
    </div>
</body>
</html>`

var pageTmpl = template.Must(template.New("report").Parse(pageTemplate))

// Renderer turns generated advice into styled HTML pages on disk.
type Renderer struct {
	outputDir string

	logger *logrus.Logger
}

func NewRenderer(outputDir string, logger *logrus.Logger) *Renderer {
	return &Renderer{
		outputDir: outputDir,
		logger:    logger,
	}
}

type page struct {
	Title     string
	Body      template.HTML
	QR        template.URL
	Timestamp string
}

// Render produces the final HTML page around the model output.
// The model already answers in HTML, we only normalize newlines and
// wrap bare links.
func (r *Renderer) Render(loc locations.Location, body string, now time.Time) (string, error) {
	content := strings.ReplaceAll(body, "\n", "<br>")
	content = Linkify(content)

	data := page{
		Title:     loc.Title,
		Body:      template.HTML(content),
		Timestamp: utils.FormatDate(now),
	}

	if loc.LiveURL != "" {
		qr, err := qrDataURI(loc.LiveURL)
		if err != nil {
			r.logger.Warnf("Could not generate QR code: %v", err)
		} else {
			data.QR = template.URL(qr)
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("could not render report: %w", err)
	}

	return buf.String(), nil
}

// Write stores the page under <outputDir>/<slug>/index.html.
// The page goes to a temp file first so readers never see a half
// written report.
func (r *Renderer) Write(loc locations.Location, content string) (string, error) {
	dir := filepath.Join(r.outputDir, loc.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create report directory: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("could not write report: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("could not move report into place: %w", err)
	}

	return path, nil
}

func qrDataURI(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		return "", fmt.Errorf("could not encode QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

var reURL = xurls.Strict()

// Linkify wraps bare links in anchor tags. Links that already sit in
// a tag or in anchor text are left alone.
func Linkify(s string) string {
	matches := reURL.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(s[last:start])

		url := s[start:end]
		if insideTag(s, start) {
			b.WriteString(url)
		} else {
			b.WriteString(fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, url))
		}

		last = end
	}
	b.WriteString(s[last:])

	return b.String()
}

func insideTag(s string, pos int) bool {
	before := strings.ToLower(s[:pos])

	// between < and >, e.g. inside an href attribute
	if open := strings.LastIndex(before, "<"); open >= 0 && !strings.Contains(before[open:], ">") {
		return true
	}

	// inside the text of an anchor that is not closed yet
	if anchor := strings.LastIndex(before, "<a "); anchor >= 0 && !strings.Contains(before[anchor:], "</a") {
		return true
	}

	return false
}
