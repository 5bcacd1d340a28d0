package waterinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://waterinfo.rws.nl"

// label fragments used by the waterinfo API for related readings
const (
	LabelWindSpeed        = "Windsnelheid"
	LabelWaterTemperature = "Watertemperatuur"
)

// Client talks to the public Rijkswaterstaat waterinfo API
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

// Reading is a single measurement as the API reports it
// The value might be missing for stations that are temporarily down
type Reading struct {
	Label    string   `json:"label"`
	Data     *float64 `json:"data"`
	Unit     string   `json:"unit"`
	DateTime string   `json:"dateTime"`
}

// Detail is the response of the detail endpoint: the latest reading
// for the requested parameter plus related readings of the station
type Detail struct {
	Latest  Reading   `json:"latest"`
	Related []Reading `json:"related"`
}

// WaterLevel returns the latest water level in cm relative to NAP
func (d *Detail) WaterLevel() *float64 {
	return d.Latest.Data
}

// RelatedReading returns the first related reading whose label
// contains the given fragment, e.g. LabelWindSpeed
func (d *Detail) RelatedReading(fragment string) *Reading {
	for i := range d.Related {
		if strings.Contains(d.Related[i].Label, fragment) {
			return &d.Related[i]
		}
	}

	return nil
}

const dutchDateTime = "02-01-2006 15:04"

// MeasuredAt parses the timestamp of the latest reading. Timestamps in
// the Dutch layout carry no offset and are Amsterdam local time.
func (d *Detail) MeasuredAt() (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, d.Latest.DateTime); err == nil {
		return t, true
	}

	if t, err := time.ParseInLocation(dutchDateTime, d.Latest.DateTime, utils.GetTz()); err == nil {
		return t, true
	}

	return time.Time{}, false
}

type Message struct {
	Title      string `json:"title"`
	BannerText string `json:"bannerText"`
}

// GetDetail fetches the latest measurements for a location
func (c *Client) GetDetail(ctx context.Context, locationSlug, expertParameter string) (*Detail, error) {
	query := url.Values{}
	query.Add("locationSlug", locationSlug)
	query.Add("expertParameter", expertParameter)

	body, err := c.get(ctx, "/api/detail/get", query, "waterinfo")
	if err != nil {
		return nil, err
	}

	var detail Detail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("could not unmarshal detail response: %w", err)
	}

	return &detail, nil
}

// GetMessages fetches the official safety bulletins for the given identifiers
func (c *Client) GetMessages(ctx context.Context, identifiers []string) ([]Message, error) {
	query := url.Values{}
	for _, id := range identifiers {
		query.Add("identifiers", id)
	}

	body, err := c.get(ctx, "/api/watermessage/getall", query, "watermessages")
	if err != nil {
		return nil, err
	}

	var response struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("could not unmarshal watermessage response: %w", err)
	}

	return response.Messages, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.URL.RawQuery = query.Encode()

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Referer", "https://waterinfo.rws.nl/")
	req.Header.Add("User-Agent", "Mozilla/5.0")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.monitor.FetchFailures.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("could not get response from waterinfo: %w", err)
	}

	defer resp.Body.Close() //nolint: errcheck

	c.monitor.FetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.monitor.FetchFailures.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("unexpected status code from waterinfo: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.monitor.FetchFailures.WithLabelValues(source).Inc()
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"source": source,
		"bytes":  len(body),
	}).Debug("Fetched waterinfo data")

	return body, nil
}
