package advice

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/arianium/rws-data-ingester/pkg/waterinfo"
	"github.com/arianium/rws-data-ingester/pkg/zwemwater"
)

// the prompts are the most important part of the advice.
// everything the model knows about the water comes from here

//go:embed advice.prompt
var advicePrompt string

//go:embed sections.prompt
var sectionsPrompt string

// PromptData carries all values the prompt templates can reference.
type PromptData struct {
	WaterLevel       string
	WaterTemperature string
	WindSpeed        string
	Messages         []waterinfo.Message
	Spots            []zwemwater.Spot

	MeasuredAgo string
	Agenda      string
	News        string
}

// NewPromptData flattens fetched readings into template values.
// Missing readings become "N/A" so the prompt never breaks.
func NewPromptData(detail waterinfo.Detail, messages []waterinfo.Message, spots []zwemwater.Spot) PromptData {
	data := PromptData{
		WaterLevel:       formatReading(detail.WaterLevel()),
		WaterTemperature: "N/A",
		WindSpeed:        "N/A",
		Messages:         messages,
		Spots:            spots,
	}

	if r := detail.RelatedReading(waterinfo.LabelWaterTemperature); r != nil {
		data.WaterTemperature = formatReading(r.Data)
	}

	if r := detail.RelatedReading(waterinfo.LabelWindSpeed); r != nil {
		data.WindSpeed = formatReading(r.Data)
	}

	if at, ok := detail.MeasuredAt(); ok {
		data.MeasuredAgo = utils.HumanDuration(time.Since(at))
	}

	return data
}

// BuildPrompt renders the prompt template for the location profile.
func BuildPrompt(loc locations.Location, data PromptData) (string, error) {
	template := advicePrompt
	if loc.PromptStyle == locations.StyleSections {
		template = sectionsPrompt
	}

	rendered := strings.ReplaceAll(template, "${place}", loc.Place)
	rendered = strings.ReplaceAll(rendered, "${temperature}", data.WaterTemperature)
	rendered = strings.ReplaceAll(rendered, "${level}", data.WaterLevel)
	rendered = strings.ReplaceAll(rendered, "${wind}", data.WindSpeed)
	rendered = strings.ReplaceAll(rendered, "${messages}", formatMessages(data.Messages))

	if strings.Contains(rendered, "${spots}") {
		spots, err := formatSpots(data.Spots)
		if err != nil {
			return "", err
		}

		rendered = strings.ReplaceAll(rendered, "${spots}", spots)
	}

	rendered = strings.ReplaceAll(rendered, "${extra}", buildExtra(data))

	return strings.TrimSpace(rendered), nil
}

func formatReading(value *float64) string {
	if value == nil {
		return "N/A"
	}

	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func formatMessages(messages []waterinfo.Message) string {
	if len(messages) == 0 {
		return "- No official messages"
	}

	lines := make([]string, len(messages))
	for i, msg := range messages {
		lines[i] = fmt.Sprintf("- %s: %s", msg.Title, msg.BannerText)
	}

	return strings.Join(lines, "\n")
}

func formatSpots(spots []zwemwater.Spot) (string, error) {
	payload, err := json.Marshal(struct {
		SafetyMessages []zwemwater.Spot `json:"safetyMessages"`
	}{
		SafetyMessages: spots,
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal spots: %w", err)
	}

	return string(payload), nil
}

// buildExtra joins the optional context blocks. The result either
// replaces ${extra} with nothing or with a block framed by newlines
// so the template stays readable in both cases.
func buildExtra(data PromptData) string {
	parts := make([]string, 0, 3)
	if data.MeasuredAgo != "" {
		parts = append(parts, fmt.Sprintf("The latest measurement is %s old.", data.MeasuredAgo))
	}

	if data.Agenda != "" {
		parts = append(parts, data.Agenda)
	}

	if data.News != "" {
		parts = append(parts, data.News)
	}

	if len(parts) == 0 {
		return ""
	}

	return "\n" + strings.Join(parts, "\n\n") + "\n"
}
