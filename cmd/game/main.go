package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/hyperjump/internal/audio"
	"github.com/tomz197/hyperjump/internal/audio/speaker"
	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/session"
	"github.com/tomz197/hyperjump/internal/store"
)

const defaultDBPath = "hyperjump.db"

func main() {
	// the game owns stdout, so logs go to stderr and stay quiet by default
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "hyperjump", Level: log.WarnLevel})
	if config.GetEnvBool("HYPERJUMP_DEBUG", false) {
		logger.SetLevel(log.DebugLevel)
	}

	tuning, err := config.LoadTuning(config.GetEnv("HYPERJUMP_TUNING", ""))
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}

	db, err := store.New(config.GetEnv("HYPERJUMP_DB", defaultDBPath))
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatal("migrate store", "err", err)
	}

	var sink audio.Sink = audio.Nop{}
	if config.GetEnvBool("HYPERJUMP_SOUND", true) {
		sp, err := speaker.New()
		if err != nil {
			logger.Warn("sound disabled", "err", err)
		} else {
			defer sp.Close()
			sink = sp
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Fatal("failed to enable raw mode", "err", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	s := session.New(os.Stdout, session.Options{
		Player: playerName(),
		Tuning: tuning,
		Audio:  sink,
		Store:  db,
		Logger: logger,
	})
	if err := s.Run(ctx, bufio.NewReader(os.Stdin)); err != nil {
		_ = term.Restore(fd, oldState)
		logger.Fatal("game error", "err", err)
	}
}

func playerName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
