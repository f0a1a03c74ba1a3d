package main

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/store"
)

const (
	defaultHost   = "0.0.0.0"
	defaultPort   = "8080"
	defaultDBPath = "/app/data/hyperjump.db"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "web", ReportTimestamp: true})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	db, err := store.New(config.GetEnv("HYPERJUMP_DB", defaultDBPath))
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatal("migrate store", "err", err)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newServer(db, sshHost, logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
