package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fallback components.
const (
	ComponentText  = "text"
	ComponentImage = "image"
	ComponentAudio = "audio"
)

// Metrics holds the application counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	generations        prometheus.Counter
	generationDuration prometheus.Histogram
	fallbacks          *prometheus.CounterVec
	storiesSaved       prometheus.Counter
	saveRejections     prometheus.Counter
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		generations: factory.NewCounter(prometheus.CounterOpts{
			Name: "storybook_generations_total",
			Help: "Total number of story generation requests that produced a payload.",
		}),
		generationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "storybook_generation_duration_seconds",
			Help:    "Wall time of the full text, image and narration pipeline.",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storybook_fallbacks_total",
			Help: "Total number of fallbacks taken, partitioned by component.",
		}, []string{"component"}),
		storiesSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "storybook_stories_saved_total",
			Help: "Total number of stories persisted.",
		}),
		saveRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "storybook_save_rejections_total",
			Help: "Total number of save requests rejected by validation.",
		}),
	}
}

// Registry returns the registry the counters are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GenerationCompleted records one finished pipeline run.
func (m *Metrics) GenerationCompleted(d time.Duration) {
	if m == nil {
		return
	}
	m.generations.Inc()
	m.generationDuration.Observe(d.Seconds())
}

// Fallback records a fallback taken by component.
func (m *Metrics) Fallback(component string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(component).Inc()
}

// StorySaved records a persisted story.
func (m *Metrics) StorySaved() {
	if m == nil {
		return
	}
	m.storiesSaved.Inc()
}

// SaveRejected records a save request rejected by validation.
func (m *Metrics) SaveRejected() {
	if m == nil {
		return
	}
	m.saveRejections.Inc()
}
