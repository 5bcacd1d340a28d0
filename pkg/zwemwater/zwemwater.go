package zwemwater

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const defaultBaseURL = "https://www.zwemwater.nl/wp-content/themes/stuurlui/blocks/map/map-content.php"

const rawSnippetLimit = 512

// Spot is the structured content of one zwemwater.nl swim spot page.
// Error and Raw are filled instead of the other fields when the page
// could not be parsed at all.
type Spot struct {
	Place       string            `json:"place"`
	GeneralInfo map[string]string `json:"general_info"`
	Description string            `json:"description"`
	Facilities  []string          `json:"facilities"`
	ChartTitles []string          `json:"chart_titles"`

	Error string `json:"error,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// Client scrapes swim spot pages from zwemwater.nl
type Client struct {
	baseURL string
	client  *http.Client

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func NewClient(timeout time.Duration, monitor *prometheus.Monitor, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: timeout,
		},

		monitor: monitor,
		logger:  logger,
	}
}

// GetSpot fetches and parses a single spot page. A fetch failure is an
// error, a page that does not match the expected markup degrades to a
// Spot with the Error field set.
func (c *Client) GetSpot(ctx context.Context, spotID string) (Spot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?spotid=%s", c.baseURL, spotID), http.NoBody)
	if err != nil {
		return Spot{}, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Add("Accept", "*/*")
	req.Header.Add("Referer", "https://www.zwemwater.nl/")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.monitor.FetchFailures.WithLabelValues("zwemwater").Inc()
		return Spot{}, fmt.Errorf("could not get spot %s from zwemwater: %w", spotID, err)
	}

	defer resp.Body.Close() //nolint: errcheck

	c.monitor.FetchDuration.WithLabelValues("zwemwater").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.monitor.FetchFailures.WithLabelValues("zwemwater").Inc()
		return Spot{}, fmt.Errorf("unexpected status code from zwemwater for spot %s: %d", spotID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.monitor.FetchFailures.WithLabelValues("zwemwater").Inc()
		return Spot{}, fmt.Errorf("could not read spot %s from zwemwater: %w", spotID, err)
	}

	spot := parseSpot(body)
	if spot.Error != "" {
		c.logger.WithField("spot", spotID).Warnf("Could not parse spot page: %s", spot.Error)
	}

	return spot, nil
}

func parseSpot(body []byte) Spot {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Spot{
			Place: "Unknown",
			Error: fmt.Sprintf("could not parse spot page: %v", err),
			Raw:   utils.Truncate(string(body), rawSnippetLimit),
		}
	}

	return Spot{
		Place:       parsePlace(root),
		GeneralInfo: parseGeneralInfo(root),
		Description: parseDescription(root),
		Facilities:  parseFacilities(root),
		ChartTitles: parseChartTitles(root),
	}
}

var reSpaces = regexp.MustCompile(`\s+`)

func cleanText(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func parsePlace(root *html.Node) string {
	heading, err := htmlquery.Query(root, "//h2")
	if err != nil || heading == nil {
		return "Unknown"
	}

	place := cleanText(htmlquery.InnerText(heading))
	if place == "" {
		return "Unknown"
	}

	return place
}

// parseGeneralInfo extracts the label/value list with address, water
// quality control, accessibility and similar facts
func parseGeneralInfo(root *html.Node) map[string]string {
	info := map[string]string{}

	items, err := htmlquery.QueryAll(root, "//ul[contains(@class, 'spot-info')]/li")
	if err != nil {
		return info
	}

	for _, item := range items {
		label, err := htmlquery.Query(item, "//span")
		if err != nil || label == nil {
			continue
		}

		labelText := cleanText(htmlquery.InnerText(label))
		key := strings.TrimRight(labelText, ":")
		if key == "" {
			continue
		}

		value := strings.Replace(cleanText(htmlquery.InnerText(item)), labelText, "", 1)
		info[key] = strings.Trim(value, ": ")
	}

	return info
}

func parseDescription(root *html.Node) string {
	paragraphs, err := htmlquery.QueryAll(root, "//p")
	if err != nil {
		return ""
	}

	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if text := cleanText(htmlquery.InnerText(p)); text != "" {
			lines = append(lines, text)
		}
	}

	return strings.Join(lines, "\n")
}

func parseFacilities(root *html.Node) []string {
	buttons, err := htmlquery.QueryAll(root, "//ul[contains(@class, 'features')]//button//span[contains(@class, 'border-b')]")
	if err != nil {
		return nil
	}

	facilities := make([]string, 0, len(buttons))
	for _, button := range buttons {
		if text := cleanText(htmlquery.InnerText(button)); text != "" {
			facilities = append(facilities, text)
		}
	}

	return facilities
}

func parseChartTitles(root *html.Node) []string {
	headings, err := htmlquery.QueryAll(root, "//h4")
	if err != nil {
		return nil
	}

	titles := make([]string, 0, len(headings))
	for _, heading := range headings {
		if text := cleanText(htmlquery.InnerText(heading)); text != "" {
			titles = append(titles, text)
		}
	}

	return titles
}
