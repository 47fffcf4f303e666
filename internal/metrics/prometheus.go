package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nmrpeaks_analysis_duration_seconds",
			Help:    "Mixture analysis duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"mode"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmrpeaks_analysis_total",
			Help: "Total number of analyses run",
		},
		[]string{"mode", "status"},
	)

	CompoundsDetected = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nmrpeaks_compounds_detected",
			Help:    "Number of compounds detected per analysis",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	CompoundsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nmrpeaks_compounds_total",
			Help: "Total compounds in the reference database",
		},
	)

	ReferencePeaksTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "nmrpeaks_reference_peaks_total",
			Help: "Total reference peaks in the database",
		},
	)

	CompoundWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nmrpeaks_compound_writes_total",
			Help: "Total compound create, update and delete operations",
		},
		[]string{"op", "status"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(CompoundsDetected)
	prometheus.MustRegister(CompoundsTotal)
	prometheus.MustRegister(ReferencePeaksTotal)
	prometheus.MustRegister(CompoundWrites)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
