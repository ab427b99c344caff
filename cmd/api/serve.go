package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"

	"github.com/5w1tchy/locallibrary/internal/api/handlers/catalog"
	"github.com/5w1tchy/locallibrary/internal/api/httpx"
	"github.com/5w1tchy/locallibrary/internal/api/router"
	"github.com/5w1tchy/locallibrary/internal/auth"
	"github.com/5w1tchy/locallibrary/internal/config"
	"github.com/5w1tchy/locallibrary/internal/logger"
	"github.com/5w1tchy/locallibrary/internal/maintenance"
	"github.com/5w1tchy/locallibrary/internal/metrics/viewqueue"
	"github.com/5w1tchy/locallibrary/internal/repository/sqlconnect"
	jwtutil "github.com/5w1tchy/locallibrary/internal/security/jwt"
	"github.com/5w1tchy/locallibrary/internal/security/password"
	"github.com/5w1tchy/locallibrary/internal/session"
	"github.com/5w1tchy/locallibrary/internal/storage/s3"
	catalogstore "github.com/5w1tchy/locallibrary/internal/store/catalog"
	"github.com/5w1tchy/locallibrary/internal/validate"
	"github.com/5w1tchy/locallibrary/internal/web/i18n"
	"github.com/5w1tchy/locallibrary/internal/web/static"
	"github.com/5w1tchy/locallibrary/internal/web/view"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web server",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before serving"},
		},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	if err := validate.Config(cfg); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	for _, w := range validate.HardeningWarnings(cfg, os.Getenv("APP_ENV")) {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlconnect.ConnectDB(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	log.Info("connected to database")

	if c.Bool("migrate") {
		applied, err := sqlconnect.Migrate(ctx, db)
		if err != nil {
			return err
		}
		log.Info("migrations applied", logger.Fields{"versions": applied})
	}

	rdb, err := redisClient(cfg)
	if err != nil {
		return err
	}
	var sessions session.Store = session.NewMemoryStore()
	if rdb != nil {
		defer rdb.Close()
		if err := validate.PingRedis(ctx, rdb, 2*time.Second); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		sessions = session.NewRedisStore(rdb)
		log.Info("connected to redis")
	}

	rend, err := view.New(static.Resolver{BaseURL: cfg.Storage.StaticBaseURL})
	if err != nil {
		return err
	}
	pages := &httpx.Pages{Renderer: rend}
	tr, err := i18n.New(cfg.Catalog.DefaultLanguage)
	if err != nil {
		return err
	}

	users := auth.NewSQLStore(db)
	signer := jwtutil.NewSigner(cfg.Auth.SessionSecret, cfg.Auth.ClockSkew)
	sess := auth.NewSessions(sessions, users, signer, cfg.Auth.SessionTTL, cfg.Server.Secure)
	hasher := password.NewHasher(password.DefaultParams().WithCost(
		cfg.Auth.PasswordMemory, cfg.Auth.PasswordIterations, cfg.Auth.PasswordParallelism))

	views := viewqueue.New(db, log, viewqueue.DefaultOptions())
	views.Start()

	books := catalog.New(catalogstore.New(db), sess, pages, cfg.Catalog.PageSize)
	books.Views = views

	storage := s3.FromConfig(cfg)
	if storage.Enabled() {
		covers, err := s3.New(ctx, storage)
		if err != nil {
			return err
		}
		books.Covers = covers
	}

	origins := router.Origins(cfg.Storage.StaticBaseURL)
	if o := storage.PublicOrigin(); o != "" {
		origins = append(origins, o)
	}

	maintenance.StartViewRetention(ctx, db, cfg.Maintenance.ViewRetention, cfg.Maintenance.RunAt, cfg.Maintenance.Timezone, log)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.Router(router.Deps{
			Pages:         pages,
			Catalog:       books,
			Auth:          auth.New(users, hasher, sess, pages),
			Viewers:       sess,
			Translator:    tr,
			DB:            db,
			Redis:         rdb,
			MaxBodyBytes:  cfg.Server.MaxBodyBytes,
			SecureCookies: cfg.Server.Secure,
			LoginAttempts: cfg.Auth.LoginAttempts,
			LoginWindow:   cfg.Auth.LoginWindow,
			ImageOrigins:  origins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	listen := func() error {
		log.Info("server listening", logger.Fields{"addr": cfg.Server.Addr, "tls": cfg.Server.CertFile != ""})
		if cfg.Server.CertFile != "" {
			return srv.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		}
		return srv.ListenAndServe()
	}
	return run(ctx, srv, listen, views, cfg.Server.ShutdownTimeout, log)
}

type drainer interface {
	Shutdown(ctx context.Context) error
}

// run serves until listen fails or ctx is done. Either way the server is shut
// down and the view queue drained before returning; a listen error other than
// http.ErrServerClosed is returned after that.
func run(ctx context.Context, srv *http.Server, listen func() error, views drainer, timeout time.Duration, log *logger.Logger) error {
	errc := make(chan error, 1)
	go func() { errc <- listen() }()

	var serveErr error
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
			log.Error("server stopped", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", err)
	}
	if err := views.Shutdown(shutdownCtx); err != nil {
		log.Error("view queue shutdown", err)
	}
	return serveErr
}

// redisClient returns nil when no Redis is configured. A full URL wins over
// the split fields; rediss:// URLs get TLS.
func redisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt), nil
	}
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Username:     cfg.Redis.User,
		Password:     cfg.Redis.Password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}), nil
}
