package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/hyperjump/internal/config"
	"github.com/tomz197/hyperjump/internal/draw"
	"github.com/tomz197/hyperjump/internal/session"
	"github.com/tomz197/hyperjump/internal/store"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultDBPath      = "/app/data/hyperjump.db"

	drainTimeout = 15 * time.Second
)

// players tracks live sessions so shutdown can show them the notice and
// wait for them to leave.
type players struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex // orders join against drain
	draining bool
	wg       sync.WaitGroup
}

// join registers a new session. It fails once draining has begun.
func (p *players) join() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.draining {
		return false
	}
	p.wg.Add(1)
	return true
}

func (p *players) leave() {
	p.wg.Done()
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "ssh",
		ReportTimestamp: true,
	})
	if config.GetEnvBool("HYPERJUMP_DEBUG", false) {
		logger.SetLevel(log.DebugLevel)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	dbPath := config.GetEnv("HYPERJUMP_DB", defaultDBPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath, "db", dbPath)

	tuning, err := config.LoadTuning(config.GetEnv("HYPERJUMP_TUNING", ""))
	if err != nil {
		logger.Fatal("load tuning", "err", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		logger.Fatal("open store", "err", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logger.Fatal("migrate store", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	live := &players{ctx: ctx, cancel: cancel}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(live, db, tuning, logger),
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// TCP_NODELAY keeps input latency down
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down, notifying connected players")
	live.drain(drainTimeout, logger)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// drain cancels every session's context and waits up to timeout for them
// to finish.
func (p *players) drain(timeout time.Duration, logger *log.Logger) {
	p.mu.Lock()
	p.draining = true
	p.cancel()
	p.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		logger.Info("all players disconnected")
	case <-time.After(timeout):
		logger.Warn("players still connected after drain timeout", "timeout", timeout)
	}
}

// gameMiddleware runs one game session per SSH connection.
func gameMiddleware(live *players, db *store.Store, tuning config.Tuning, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}
			if !live.join() {
				fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
				return
			}
			defer live.leave()

			logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			game := session.New(sess, session.Options{
				Player:   sess.User(),
				Tuning:   tuning,
				Store:    db,
				Logger:   logger,
				TermSize: sizeTracker.getSize,
			})
			if err := game.Run(live.ctx, bufio.NewReader(sess)); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
