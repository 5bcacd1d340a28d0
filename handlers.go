package main

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/arianium/rws-data-ingester/pkg/config"
	"github.com/arianium/rws-data-ingester/pkg/locations"
	"github.com/arianium/rws-data-ingester/pkg/prometheus"
	"github.com/arianium/rws-data-ingester/pkg/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type HandlerRepository struct {
	registry *locations.Registry
	config   *config.Config
	monitor  *prometheus.Monitor
	logger   *logrus.Logger
}

// metricsHandler returns HTTP handler for metrics endpoint
func (hr *HandlerRepository) metricsHandler() http.Handler {
	return promhttp.HandlerFor(
		hr.monitor.Registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			Registry:          hr.monitor.Registry,
		},
	)
}

func (hr *HandlerRepository) healthzHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write(utils.GetOkJSON())
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// homepageHandler lists links to all generated reports
func (hr *HandlerRepository) homepageHandler() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n")
		b.WriteString("<head><meta charset=\"UTF-8\"><title>Swimming Advice</title></head>\n")
		b.WriteString("<body>\n<h1>Swimming Advice</h1>\n<ul>\n")
		for _, loc := range hr.registry.All() {
			b.WriteString(fmt.Sprintf("<li><a href=\"/%s/\">%s</a></li>\n", loc.Slug, html.EscapeString(loc.Title)))
		}
		b.WriteString("</ul>\n</body>\n</html>")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, err := w.Write([]byte(b.String()))
		if err != nil {
			hr.logger.Errorf("Could not write response: %v", err)
		}
	}
}

// reportsHandler serves the generated reports from the output directory
func (hr *HandlerRepository) reportsHandler() http.Handler {
	return http.FileServer(http.Dir(hr.config.OutputDir))
}
