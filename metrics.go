package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inquiry outcomes recorded by bamtech_inquiries_total.
const (
	outcomeDelivered = "delivered"
	outcomeStored    = "stored"
	outcomeInvalid   = "invalid"
	outcomeLimited   = "limited"
	outcomeSpam      = "spam"
	outcomeFailed    = "failed"
)

// Metrics holds the Prometheus collectors of the site.
type Metrics struct {
	Registry           *prometheus.Registry
	PageRenders        *prometheus.CounterVec
	LanguageSelections *prometheus.CounterVec
	Inquiries          *prometheus.CounterVec
	DeliveryDuration   *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bamtech_page_renders_total",
			Help: "Pages rendered, by page and language.",
		}, []string{"page", "lang"}),
		LanguageSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bamtech_language_selections_total",
			Help: "Explicit language choices through the toggle or /lang.",
		}, []string{"lang"}),
		Inquiries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bamtech_inquiries_total",
			Help: "Contact form submissions received on /contact, by outcome.",
		}, []string{"outcome"}),
		DeliveryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bamtech_delivery_duration_seconds",
			Help:    "Time spent forwarding an inquiry.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PageRenders,
		m.LanguageSelections,
		m.Inquiries,
		m.DeliveryDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
