package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// serve 监听配置的端口，ctx 结束时优雅关闭
func (app *application) serve(ctx context.Context) error {
	srv := app.newServer()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	return app.runServer(ctx, srv, ln)
}

func (app *application) newServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		ErrorLog:     log.New(app.logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// runServer 在 ln 上提供服务，直到 ctx 被取消或服务出错
func (app *application) runServer(ctx context.Context, srv *http.Server, ln net.Listener) error {
	serveErr := make(chan error, 1)

	app.logger.PrintInfo("starting server", map[string]string{
		"addr": ln.Addr().String(),
		"env":  app.config.env,
	})

	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	app.logger.PrintInfo("shutting down server", map[string]string{
		"addr": ln.Addr().String(),
	})

	// 等待进行中的请求完成，超时后强制关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	app.logger.PrintInfo("stopped server", map[string]string{
		"addr": ln.Addr().String(),
	})

	return nil
}
