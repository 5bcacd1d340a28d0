package advice

import (
	"context"
	"fmt"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/sirupsen/logrus"
)

// Provider turns a rendered prompt into a swimming advice.
type Provider interface {
	GetAdvice(loc locations.Location, prompt string) (Response, error)
}

type Ai struct {
	providers map[string]Provider

	config *config.Config
}

func NewAi(ctx context.Context, conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) *Ai {
	return &Ai{
		providers: map[string]Provider{
			"openai":    NewOpenAi(ctx, conf, m, l),
			"anthropic": NewAnthropic(ctx, conf, m, l),
		},

		config: conf,
	}
}

func (ai *Ai) GetAdvice(loc locations.Location, prompt string) (Response, error) {
	p, ok := ai.providers[ai.config.AiProvider]
	if !ok {
		return Response{}, fmt.Errorf("unknown provider: %s", ai.config.AiProvider)
	}

	return p.GetAdvice(loc, prompt)
}

type Response struct {
	Text string `json:"text"`
	Cost Cost   `json:"cost"`
}

type Cost struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}
