package stoploops

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var server *http.Server

// StartServer starts the HTTP surface in the background.
func StartServer(svc *Service) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", svc.handleHealth)
	mux.HandleFunc("/api/loops.csv", svc.handleLoopsCSV)
	mux.HandleFunc("/api/loops.json", svc.handleLoopsJSON)
	mux.HandleFunc("/api/runs", svc.handleRuns)
	mux.HandleFunc("/api/runs/", svc.handleRunEvents)
	mux.Handle("/metrics", svc.metrics.Handler())

	addr := fmt.Sprintf(":%d", svc.cfg.Server.Port)
	server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT/SIGTERM and drains the
// server.
func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}
