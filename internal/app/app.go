package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortly/internal/adapter/cache/redis"
	"github.com/vadimbarashkov/shortly/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shortly/internal/adapter/repository/postgres"
	"github.com/vadimbarashkov/shortly/internal/codegen"
	"github.com/vadimbarashkov/shortly/internal/config"
	"github.com/vadimbarashkov/shortly/internal/usecase"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shortly/internal/adapter/delivery/http"
	pg "github.com/vadimbarashkov/shortly/pkg/postgres"
	pkgredis "github.com/vadimbarashkov/shortly/pkg/redis"
)

const serviceName = "shortly"

// NewLogger builds the process logger. Its embedded *slog.Logger is shared with
// the use case and the recoverer.
func NewLogger(cfg config.Log, w io.Writer) (*httplog.Logger, error) {
	const op = "app.NewLogger"

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("%s: invalid log level: %w", op, err)
	}

	return httplog.NewLogger(serviceName, httplog.Options{
		LogLevel: level,
		JSON:     cfg.JSON,
		Concise:  !cfg.JSON,
		Writer:   w,
	}), nil
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logCfg := cfg.Log
	if cfg.Env == config.EnvProd {
		logCfg.JSON = true
	}

	logger, err := NewLogger(logCfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ucOpts := []usecase.Option{usecase.WithLogger(logger.Logger)}

	if cfg.Redis.Enabled {
		client, err := pkgredis.Connect(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		defer client.Close()

		ucOpts = append(ucOpts, usecase.WithCache(redis.NewURLCache(client, cfg.Redis.TTL)))
	}

	gen := codegen.New(cfg.ShortCode.Prefix)

	var urlUseCase *usecase.URLUseCase

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		urlUseCase = usecase.NewURLUseCase(memory.NewURLRepository(), gen, ucOpts...)
	default:
		db, err := connectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer db.Close()

		urlUseCase = usecase.NewURLUseCase(postgres.NewURLRepository(db), gen, ucOpts...)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        delivery.NewRouter(logger, urlUseCase, gen.Prefix()),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("env", cfg.Env),
			slog.String("addr", server.Addr),
			slog.String("storage", cfg.Storage.Driver),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

func connectPostgres(ctx context.Context, cfg config.Postgres) (*sqlx.DB, error) {
	const op = "app.connectPostgres"

	db, err := pg.New(
		ctx,
		cfg.DSN(),
		pg.WithConnMaxIdleTime(cfg.ConnMaxIdleTime),
		pg.WithConnMaxLifetime(cfg.ConnMaxLifetime),
		pg.WithMaxIdleConns(cfg.MaxIdleConns),
		pg.WithMaxOpenConns(cfg.MaxOpenConns),
		pg.WithConnectRetry(cfg.ConnectAttempts, cfg.ConnectDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	if err := pg.RunMigrations(cfg.MigrationsPath, cfg.DSN()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return db, nil
}
