package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	documentsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_documents_parsed_total",
		Help: "Documents parsed successfully, by kind.",
	}, []string{"kind"})

	documentsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_documents_failed_total",
		Help: "Documents skipped because they could not be read or parsed, by kind.",
	}, []string{"kind"})

	rowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "financas_rows_dropped_total",
		Help: "Rows dropped during parsing because a field was malformed, by kind.",
	}, []string{"kind"})
)
