package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors an Engine updates once per
// processed document.
type Metrics struct {
	documentsTotal     prometheus.Counter
	relationsTotal     *prometheus.CounterVec
	inferredTotal      prometheus.Counter
	duplicatesTotal    prometheus.Counter
	conflictPairsTotal prometheus.Counter
	crossSentenceTotal prometheus.Counter
	inconsistentTotal  prometheus.Counter
	closurePasses      prometheus.Histogram
}

// NewMetrics creates the engine collectors and registers them on reg.
// Registering twice on the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		documentsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "documents_total",
			Help:      `The cumulative number of documents processed.`,
		}),
		relationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "relations_total",
			Help: `The cumulative number of relations seen, by stage.

The "input" stage counts relations handed to the engine, including malformed
ones. The "output" stage counts relations handed back.`,
		}, []string{"stage"}),
		inferredTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "inferred_total",
			Help:      `The cumulative number of relations added by closure.`,
		}),
		duplicatesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "duplicates_total",
			Help:      `The cumulative number of redundant restatements removed before closure.`,
		}),
		conflictPairsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "conflict_pairs_total",
			Help: `The cumulative number of span pairs whose relations disagreed.

Every relation on such a pair is removed. A rising rate usually points at
a classifier emitting both directions of a link with different labels.`,
		}),
		crossSentenceTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "cross_sentence_total",
			Help:      `The cumulative number of relations removed by the sentence restriction.`,
		}),
		inconsistentTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "inconsistent_total",
			Help:      `The cumulative number of span pairs for which closure entailed contradictory categories.`,
		}),
		closurePasses: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tlink",
			Subsystem: "engine",
			Name:      "closure_passes",
			Help:      `The number of productive closure passes per document.`,
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
	}
}

func (m *Metrics) observe(r Report) {
	m.documentsTotal.Inc()
	m.relationsTotal.WithLabelValues("input").Add(float64(r.Input))
	m.relationsTotal.WithLabelValues("malformed").Add(float64(r.Malformed))
	m.relationsTotal.WithLabelValues("output").Add(float64(r.Output))
	m.inferredTotal.Add(float64(r.Inferred))
	m.duplicatesTotal.Add(float64(r.Duplicates))
	m.conflictPairsTotal.Add(float64(r.ConflictPairs))
	m.crossSentenceTotal.Add(float64(r.CrossSentence + r.Unmapped))
	m.inconsistentTotal.Add(float64(r.Inconsistent))
	m.closurePasses.Observe(float64(r.Passes))
}
