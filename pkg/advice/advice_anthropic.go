package advice

import (
	"context"
	"errors"
	"fmt"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sirupsen/logrus"
)

const anthropicMaxTokens = 2048

type Anthropic struct {
	client *anthropic.Client

	config  *config.Config
	monitor *prometheus.Monitor
	ctx     context.Context
	logger  *logrus.Logger
}

func NewAnthropic(ctx context.Context, conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) *Anthropic {
	return &Anthropic{
		client: anthropic.NewClient(conf.AnthropicAPIKey),

		config:  conf,
		monitor: m,
		ctx:     ctx,
		logger:  l,
	}
}

func (ai *Anthropic) GetAdvice(loc locations.Location, prompt string) (Response, error) {
	output := Response{
		Text: "",
		Cost: Cost{
			Input:  0,
			Output: 0,
		},
	}

	if prompt == "" {
		return output, errors.New("empty prompt")
	}

	// the model from the location profile belongs to the OpenAI provider
	// we use sonnet only
	temperature := float32(loc.Temperature)
	resp, err := ai.client.CreateMessages(ai.ctx, anthropic.MessagesRequest{
		Model: anthropic.ModelClaude3Dot5SonnetLatest,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens:   anthropicMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		var e *anthropic.APIError
		if errors.As(err, &e) {
			return output, fmt.Errorf("messages error, type: %s, message: %s", e.Type, e.Message)
		}

		return output, fmt.Errorf("messages error: %w", err)
	}

	if len(resp.Content) > 0 {
		output.Text = resp.Content[len(resp.Content)-1].GetText()
	}

	output.Cost.Input = resp.Usage.InputTokens
	output.Cost.Output = resp.Usage.OutputTokens

	ai.monitor.AiInputTokens.WithLabelValues("anthropic").Add(float64(resp.Usage.InputTokens))
	ai.monitor.AiOutputTokens.WithLabelValues("anthropic").Add(float64(resp.Usage.OutputTokens))

	ai.logger.WithField("billing", "input").Infof("Anthropic input tokens: %d", resp.Usage.InputTokens)
	ai.logger.WithField("billing", "output").Infof("Anthropic output tokens: %d", resp.Usage.OutputTokens)

	if output.Text == "" {
		return output, errors.New("empty response from model")
	}

	return output, nil
}
