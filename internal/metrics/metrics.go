package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector interface {
	RecordResultCreated()
	RecordEventPublished()
	RecordEventPublishFailure()
	RecordFileUploaded()
	RecordResetTokenIssued()
}

type PrometheusCollector struct {
	resultsCreated  prometheus.Counter
	eventsPublished prometheus.Counter
	eventFailures   prometheus.Counter
	filesUploaded   prometheus.Counter
	resetTokens     prometheus.Counter
}

func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		resultsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edusync_results_created_total",
			Help: "Total number of submission results durably recorded",
		}),
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edusync_events_published_total",
			Help: "Total number of result envelopes published to the event stream",
		}),
		eventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edusync_event_publish_failures_total",
			Help: "Total number of event publishes dropped after a transport failure",
		}),
		filesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edusync_files_uploaded_total",
			Help: "Total number of media blobs uploaded",
		}),
		resetTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edusync_reset_tokens_issued_total",
			Help: "Total number of password reset tokens issued",
		}),
	}

	reg.MustRegister(
		c.resultsCreated,
		c.eventsPublished,
		c.eventFailures,
		c.filesUploaded,
		c.resetTokens,
	)

	return c
}

func (c *PrometheusCollector) RecordResultCreated()        { c.resultsCreated.Inc() }
func (c *PrometheusCollector) RecordEventPublished()       { c.eventsPublished.Inc() }
func (c *PrometheusCollector) RecordEventPublishFailure()  { c.eventFailures.Inc() }
func (c *PrometheusCollector) RecordFileUploaded()         { c.filesUploaded.Inc() }
func (c *PrometheusCollector) RecordResetTokenIssued()     { c.resetTokens.Inc() }

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Noop используется в тестах и там, где метрики не подключены.
type Noop struct{}

func (Noop) RecordResultCreated()       {}
func (Noop) RecordEventPublished()      {}
func (Noop) RecordEventPublishFailure() {}
func (Noop) RecordFileUploaded()        {}
func (Noop) RecordResetTokenIssued()    {}
