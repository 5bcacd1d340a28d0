package advice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/mmcdole/gofeed"
)

const newsSummaryLimit = 280

// ProvideNews downloads an RSS feed and summarises items published
// within maxAge as prompt context. Items without a parseable
// publication date are skipped.
func ProvideNews(client *http.Client, url string, maxAge time.Duration) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("could not get news feed: %w", err)
	}
	defer resp.Body.Close() //nolint: errcheck

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not parse news feed: %w", err)
	}

	type Item struct {
		Title     string `json:"title"`
		Published string `json:"published"`
		Category  string `json:"category,omitempty"`
		Summary   string `json:"summary"`
		Link      string `json:"link"`
	}

	oldest := time.Now().Add(-maxAge)
	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.PublishedParsed == nil || entry.PublishedParsed.Before(oldest) {
			continue
		}

		item := Item{
			Title:     entry.Title,
			Published: entry.PublishedParsed.Format("2006-01-02"),
			Summary:   utils.Truncate(entry.Description, newsSummaryLimit),
			Link:      entry.Link,
		}

		if len(entry.Categories) > 0 {
			item.Category = entry.Categories[0]
		}

		items = append(items, item)
	}

	jsonData, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("could not marshal news items: %w", err)
	}

	return fmt.Sprintf("Recent local news that may affect swimming:\n<json>\n%s\n</json>", string(jsonData)), nil
}
