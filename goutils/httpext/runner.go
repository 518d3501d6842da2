package httpext

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pola2025/leadform/errors"
	"golang.org/x/exp/slog"
)

// Runner 运行一个 http 服务，ctx 取消后优雅关闭
type Runner struct {
	logger   *slog.Logger
	listenAt string

	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration
}

func NewRunner(logger *slog.Logger, listenAt string) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:            logger.WithGroup("http"),
		listenAt:          listenAt,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
	}
}

func (r *Runner) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", r.listenAt)
	if err != nil {
		return nil, errors.Wrap(err, "listen at '"+r.listenAt+"' fail")
	}
	return listener, nil
}

func (r *Runner) Run(ctx context.Context, handler http.Handler) error {
	listener, err := r.Listen()
	if err != nil {
		return err
	}
	return r.Serve(ctx, listener, handler)
}

// Serve 在 listener 上运行服务直到 ctx 被取消或者服务出错
func (r *Runner) Serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: r.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errc := make(chan error, 1)
	go func() {
		r.logger.Info("http server is started", slog.String("listen", listener.Addr().String()))
		errc <- srv.Serve(listener)
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.ShutdownTimeout)
	defer cancel()

	r.logger.Info("http server is stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("http server shutdown fail", slog.Any("error", err))
		return srv.Close()
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	r.logger.Info("http server is stopped")
	return nil
}
