package locations

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kozaktomas/diacritics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// built-in location profiles, used unless a registry file is configured
//
//go:embed locations.yml
var embedded []byte

const (
	// StyleAdvice renders a single block of advice for one swim location
	StyleAdvice = "advice"
	// StyleSections renders separate advice and safety-notes sections
	// and requires zwemwater spot ids
	StyleSections = "sections"
)

// Location describes one report target: where to fetch measurements,
// which community spots to scrape and how to talk to the model
type Location struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
	Place string `yaml:"place"`

	LocationSlug    string   `yaml:"location_slug"`
	ExpertParameter string   `yaml:"expert_parameter"`
	MessageIDs      []string `yaml:"message_ids"`
	SpotIDs         []string `yaml:"spot_ids"`

	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	PromptStyle string  `yaml:"prompt_style"`

	LiveURL   string `yaml:"live_url"`
	AgendaURL string `yaml:"agenda_url"`
	NewsURL   string `yaml:"news_url"`
}

type Registry struct {
	locations []Location
}

// NewRegistry loads location profiles from the given file
// or from the embedded registry when the path is empty
func NewRegistry(path string) (*Registry, error) {
	content := embedded
	if path != "" {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read locations file: %w", err)
		}
	}

	var doc struct {
		Locations []Location `yaml:"locations"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("could not unmarshal locations: %w", err)
	}

	if len(doc.Locations) == 0 {
		return nil, fmt.Errorf("no locations defined")
	}

	seen := map[string]bool{}
	for i := range doc.Locations {
		loc := &doc.Locations[i]
		applyDefaults(loc)
		if err := validate(loc); err != nil {
			return nil, err
		}

		if seen[loc.Slug] {
			return nil, fmt.Errorf("duplicate location slug: %s", loc.Slug)
		}
		seen[loc.Slug] = true
	}

	return &Registry{locations: doc.Locations}, nil
}

func (r *Registry) All() []Location {
	return r.locations
}

func (r *Registry) Get(slug string) (Location, error) {
	for _, loc := range r.locations {
		if loc.Slug == slug {
			return loc, nil
		}
	}

	return Location{}, fmt.Errorf("unknown location: %s", slug)
}

func applyDefaults(loc *Location) {
	if loc.Slug == "" {
		loc.Slug = Slugify(loc.Title)
	}
	if loc.Title == "" {
		loc.Title = defaultTitle(loc.Slug)
	}
	if loc.Place == "" {
		loc.Place = placeFromSlug(loc.Slug)
	}
	if loc.PromptStyle == "" {
		loc.PromptStyle = StyleAdvice
	}
}

func validate(loc *Location) error {
	if loc.Slug == "" {
		return fmt.Errorf("location needs a slug or a title")
	}
	if loc.LocationSlug == "" {
		return fmt.Errorf("location %s: location_slug is required", loc.Slug)
	}
	if loc.ExpertParameter == "" {
		return fmt.Errorf("location %s: expert_parameter is required", loc.Slug)
	}
	if loc.Model == "" {
		return fmt.Errorf("location %s: model is required", loc.Slug)
	}

	switch loc.PromptStyle {
	case StyleAdvice:
		// no extra requirements
	case StyleSections:
		if len(loc.SpotIDs) == 0 {
			return fmt.Errorf("location %s: prompt style %s requires spot_ids", loc.Slug, StyleSections)
		}
	default:
		return fmt.Errorf("location %s: unknown prompt style: %s", loc.Slug, loc.PromptStyle)
	}

	return nil
}

var reSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a human name into a directory-safe slug,
// e.g. "Café Zwembad" becomes "cafe-zwembad"
func Slugify(s string) string {
	plain, err := diacritics.Remove(s)
	if err != nil {
		plain = s
	}

	plain = strings.ToLower(plain)
	plain = reSlugChars.ReplaceAllString(plain, "-")

	return strings.Trim(plain, "-")
}

func defaultTitle(slug string) string {
	name := cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	return name + " Swimming Advice"
}

func placeFromSlug(slug string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
}
