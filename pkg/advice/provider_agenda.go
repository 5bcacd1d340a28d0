package advice

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/apognu/gocal"
)

// ProvideAgenda downloads an iCal feed and summarises the events
// between start and end as prompt context.
func ProvideAgenda(client *http.Client, url string, start, end time.Time) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("could not get agenda: %w", err)
	}
	defer resp.Body.Close() //nolint: errcheck

	calendar := gocal.NewParser(resp.Body)
	calendar.Start, calendar.End = &start, &end

	err = calendar.Parse()
	if err != nil {
		return "", fmt.Errorf("could not parse agenda: %w", err)
	}

	type Event struct {
		Summary     string `json:"summary"`
		Start       string `json:"start"`
		End         string `json:"end"`
		Description string `json:"description"`
		Location    string `json:"location"`
	}

	events := make([]Event, len(calendar.Events))
	for i, e := range calendar.Events {
		events[i] = Event{
			Summary:     e.Summary,
			Start:       formatAgendaDate(e.Start),
			End:         formatAgendaDate(e.End),
			Description: e.Description,
			Location:    e.Location,
		}
	}

	jsonData, err := json.Marshal(events)
	if err != nil {
		return "", fmt.Errorf("could not marshal agenda events: %w", err)
	}

	return fmt.Sprintf("Organised swimming sessions in the coming days:\n<json>\n%s\n</json>", string(jsonData)), nil
}

func formatAgendaDate(date *time.Time) string {
	if date == nil {
		return "unknown"
	}
	return date.Format("2006-01-02 15:04")
}
