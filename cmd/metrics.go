package cmd

import (
	"net/http"

	"anime-ringtone/infrastructure/metrics"
)

func metricsMux(collector *metrics.Collector) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	return mux
}
