package server

import "net/http"

// Routes registers every endpoint on a new mux wrapped in the request logger.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/api/tiles", s.HandleTiles)
	mux.HandleFunc("/api/points", s.HandlePoints)
	mux.HandleFunc("/api/timeseries", s.HandleTimeSeries)
	mux.HandleFunc("/api/colorbar.webp", s.HandleColorbar)
	mux.HandleFunc("/favicon.ico", s.HandleFavicon)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
