package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arianium/rws-data-ingester/pkg/advice"
	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/arianium/rws-data-ingester/pkg/report"
	"github.com/arianium/rws-data-ingester/pkg/waterinfo"
	"github.com/arianium/rws-data-ingester/pkg/zwemwater"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	agendaWindow = 7 * 24 * time.Hour
	newsMaxAge   = 14 * 24 * time.Hour
)

type waterSource interface {
	GetDetail(ctx context.Context, locationSlug, expertParameter string) (*waterinfo.Detail, error)
	GetMessages(ctx context.Context, identifiers []string) ([]waterinfo.Message, error)
}

type spotSource interface {
	GetSpot(ctx context.Context, spotID string) (zwemwater.Spot, error)
}

type advisor interface {
	GetAdvice(loc locations.Location, prompt string) (advice.Response, error)
}

// Pipeline generates advice reports for configured locations.
type Pipeline struct {
	config    *config.Config
	registry  *locations.Registry
	waterinfo waterSource
	zwemwater spotSource
	ai        advisor
	renderer  *report.Renderer
	client    *http.Client

	monitor *prometheus.Monitor
	logger  *logrus.Logger
	ctx     context.Context
}

func NewPipeline(ctx context.Context, conf *config.Config, registry *locations.Registry, m *prometheus.Monitor, l *logrus.Logger) *Pipeline {
	timeout := time.Duration(conf.RequestTimeout) * time.Second

	return &Pipeline{
		config:    conf,
		registry:  registry,
		waterinfo: waterinfo.NewClient(timeout, m, l),
		zwemwater: zwemwater.NewClient(timeout, m, l),
		ai:        advice.NewAi(ctx, conf, m, l),
		renderer:  report.NewRenderer(conf.OutputDir, l),
		client:    &http.Client{Timeout: timeout},

		monitor: m,
		logger:  l,
		ctx:     ctx,
	}
}

// Run generates reports for the given slugs or for every configured
// location when no slugs are given. A failed location does not stop
// the others.
func (p *Pipeline) Run(slugs []string) error {
	locs, err := p.resolve(slugs)
	if err != nil {
		return err
	}

	return p.generateAll(locs)
}

func (p *Pipeline) generateAll(locs []locations.Location) error {
	failed := 0
	for _, loc := range locs {
		if err := p.generate(loc); err != nil {
			failed++
			p.logger.WithField("location", loc.Slug).Errorf("Could not generate report: %v", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(locs))
	}

	return nil
}

func (p *Pipeline) resolve(slugs []string) ([]locations.Location, error) {
	if len(slugs) == 0 {
		return p.registry.All(), nil
	}

	locs := make([]locations.Location, len(slugs))
	for i, slug := range slugs {
		loc, err := p.registry.Get(slug)
		if err != nil {
			return nil, err
		}
		locs[i] = loc
	}

	return locs, nil
}

func (p *Pipeline) generate(loc locations.Location) error {
	p.logger.WithField("location", loc.Slug).Info("Fetching water and safety data")

	var detail *waterinfo.Detail
	var messages []waterinfo.Message
	spots := make([]zwemwater.Spot, len(loc.SpotIDs))

	g, ctx := errgroup.WithContext(p.ctx)
	g.Go(func() error {
		var err error
		detail, err = p.waterinfo.GetDetail(ctx, loc.LocationSlug, loc.ExpertParameter)
		return err
	})
	g.Go(func() error {
		var err error
		messages, err = p.waterinfo.GetMessages(ctx, loc.MessageIDs)
		return err
	})
	for i, spotID := range loc.SpotIDs {
		g.Go(func() error {
			var err error
			spots[i], err = p.zwemwater.GetSpot(ctx, spotID)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	data := advice.NewPromptData(*detail, messages, spots)
	p.enrich(loc, &data)

	prompt, err := advice.BuildPrompt(loc, data)
	if err != nil {
		return err
	}

	p.logger.WithField("location", loc.Slug).Info("Sending prompt to LLM")
	resp, err := p.ai.GetAdvice(loc, prompt)
	if err != nil {
		return err
	}

	content, err := p.renderer.Render(loc, resp.Text, time.Now())
	if err != nil {
		return err
	}

	path, err := p.renderer.Write(loc, content)
	if err != nil {
		return err
	}

	p.monitor.ReportsGenerated.WithLabelValues(loc.Slug).Inc()
	p.monitor.LastReport.WithLabelValues(loc.Slug).SetToCurrentTime()

	p.logger.WithFields(logrus.Fields{
		"location": loc.Slug,
		"path":     path,
	}).Info("HTML report saved")

	return nil
}

// enrich adds the optional agenda and news context. Both are best
// effort, a failure only logs a warning.
func (p *Pipeline) enrich(loc locations.Location, data *advice.PromptData) {
	if loc.AgendaURL != "" {
		now := time.Now()
		agenda, err := advice.ProvideAgenda(p.client, loc.AgendaURL, now, now.Add(agendaWindow))
		p.monitor.FetchDuration.WithLabelValues("agenda").Observe(time.Since(now).Seconds())
		if err != nil {
			p.monitor.FetchFailures.WithLabelValues("agenda").Inc()
			p.logger.WithField("location", loc.Slug).Warnf("Could not fetch agenda: %v", err)
		} else {
			data.Agenda = agenda
		}
	}

	if loc.NewsURL != "" {
		now := time.Now()
		news, err := advice.ProvideNews(p.client, loc.NewsURL, newsMaxAge)
		p.monitor.FetchDuration.WithLabelValues("news").Observe(time.Since(now).Seconds())
		if err != nil {
			p.monitor.FetchFailures.WithLabelValues("news").Inc()
			p.logger.WithField("location", loc.Slug).Warnf("Could not fetch news: %v", err)
		} else {
			data.News = news
		}
	}
}
