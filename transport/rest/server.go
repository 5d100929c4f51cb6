package rest

import (
	"fmt"
	"net/http"
	"time"
)

type sessionCounter interface {
	Count() int
}

func Start(port string, sessions sessionCounter, results resultLister) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", pingHandler)
	mux.HandleFunc("/health", healthHandler(sessions))
	mux.HandleFunc("/results", resultsHandler(results))

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
