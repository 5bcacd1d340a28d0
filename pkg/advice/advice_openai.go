package advice

import (
	"context"
	"errors"
	"fmt"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/sirupsen/logrus"
)

// OpenAi talks to any OpenAI compatible chat completion API.
// The default base URL points to DeepSeek.
type OpenAi struct {
	client openai.Client

	config  *config.Config
	monitor *prometheus.Monitor
	ctx     context.Context
	logger  *logrus.Logger
}

func NewOpenAi(ctx context.Context, conf *config.Config, m *prometheus.Monitor, l *logrus.Logger) *OpenAi {
	return &OpenAi{
		client: openai.NewClient(
			option.WithAPIKey(conf.OpenAiAPIKey),
			option.WithBaseURL(conf.OpenAiBaseURL),
		),

		config:  conf,
		monitor: m,
		ctx:     ctx,
		logger:  l,
	}
}

func (ai *OpenAi) GetAdvice(loc locations.Location, prompt string) (Response, error) {
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

	param := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(loc.Model),
		Temperature: openai.Float(loc.Temperature),
	}

	resp, err := ai.client.Chat.Completions.New(ai.ctx, param)
	if err != nil {
		return output, fmt.Errorf("openai client error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return output, errors.New("no choices in response")
	}

	output.Text = resp.Choices[0].Message.Content
	output.Cost.Input = int(resp.Usage.PromptTokens)
	output.Cost.Output = int(resp.Usage.CompletionTokens)

	ai.monitor.AiInputTokens.WithLabelValues("openai").Add(float64(resp.Usage.PromptTokens))
	ai.monitor.AiOutputTokens.WithLabelValues("openai").Add(float64(resp.Usage.CompletionTokens))

	ai.logger.WithField("billing", "input").Infof("OpenAI input tokens: %d", resp.Usage.PromptTokens)
	ai.logger.WithField("billing", "output").Infof("OpenAI output tokens: %d", resp.Usage.CompletionTokens)

	if output.Text == "" {
		return output, errors.New("empty response from model")
	}

	return output, nil
}
