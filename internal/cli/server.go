package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"netquiz/internal/app"
	"netquiz/internal/config"
	"netquiz/internal/domain"
	"netquiz/internal/infra/file"
	"netquiz/internal/infra/memory"
	pgloader "netquiz/internal/infra/postgres"
	infraredis "netquiz/internal/infra/redis"
	"netquiz/internal/telemetry"
	transport "netquiz/internal/transport/http"
	"netquiz/internal/transport/tcp"
)

type startOptions struct {
	bind        string
	port        string
	workers     int
	readTimeout time.Duration
	httpAddr    string
	bank        string
	bankFile    string
	maxHints    int
	redisAddr   string
	postgresURL string
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(root *rootOptions, v *viper.Viper) *cobra.Command {
	opts := &startOptions{}
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(root.verbose)
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			return runServer(cmd.Context(), cfg, logger)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.bind, "bind", "", "address to bind the quiz listener to (env: NETQUIZ_BIND)")
	fs.StringVarP(&opts.port, "port", "p", config.DefaultPort, "quiz listener port (env: NETQUIZ_PORT)")
	fs.IntVar(&opts.workers, "workers", config.DefaultWorkers, "maximum concurrent sessions (env: NETQUIZ_WORKERS)")
	fs.DurationVar(&opts.readTimeout, "read-timeout", 0, "drop participants silent for this long, 0 waits forever (env: NETQUIZ_READ_TIMEOUT)")
	fs.StringVar(&opts.httpAddr, "http-addr", config.DefaultHTTPAddr, "ops HTTP address for health, metrics and websocket play (env: NETQUIZ_HTTP_ADDR)")
	fs.StringVar(&opts.bank, "bank", domain.DefaultBankID, "question bank id (env: NETQUIZ_BANK)")
	fs.StringVar(&opts.bankFile, "bank-file", "", "YAML question bank file (env: NETQUIZ_BANK_FILE)")
	fs.IntVar(&opts.maxHints, "max-hints", app.DefaultMaxHints, "hints per session (env: NETQUIZ_MAX_HINTS)")
	fs.StringVar(&opts.redisAddr, "redis-addr", "", "redis address for the shared bank cache and session markers (env: NETQUIZ_REDIS_ADDR)")
	fs.StringVar(&opts.postgresURL, "postgres-url", "", "postgres URL holding question banks (env: NETQUIZ_POSTGRES_URL)")
	bindEnv(v, fs)

	return cmd
}

// apply lets flags (and their env vars) override the file config.
func (o *startOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("bind") {
		cfg.Server.Bind = o.bind
	}
	if fs.Changed("port") {
		cfg.Server.Port = o.port
	}
	if fs.Changed("workers") {
		cfg.Server.Workers = o.workers
	}
	if fs.Changed("read-timeout") {
		cfg.Server.ReadTimeout = o.readTimeout.String()
	}
	if fs.Changed("http-addr") {
		cfg.HTTP.Addr = o.httpAddr
	}
	if fs.Changed("bank") {
		cfg.Quiz.Bank = o.bank
	}
	if fs.Changed("bank-file") {
		cfg.Quiz.File = o.bankFile
	}
	if fs.Changed("max-hints") {
		n := o.maxHints
		cfg.Quiz.MaxHints = &n
	}
	if fs.Changed("redis-addr") {
		cfg.Redis.Addr = o.redisAddr
	}
	if fs.Changed("postgres-url") {
		cfg.Postgres.URL = o.postgresURL
	}
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var loader app.BankLoader = memory.NewStaticBankLoader(map[string]domain.Bank{
		domain.DefaultBankID: domain.DefaultBank(),
	})
	if cfg.Quiz.File != "" {
		loader = file.NewBankLoader(cfg.Quiz.File)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()
		loader = pgloader.NewBankLoader(pool)
	}

	var store app.SessionRepository = memory.NewSessionStore()
	if cfg.Redis.Addr != "" {
		redisClient, err := connectRedis(ctx, cfg)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()

		ttl := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
		loader = infraredis.NewBankCache(redisClient, loader, ttl)
		store = infraredis.NewSessionStore(redisClient, ttl)
	}

	banks := memory.NewBankRepository(loader)
	bank, err := banks.Warm(ctx, cfg.Quiz.Bank)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "quiz: bank loaded", "bank", bank.ID(), "questions", bank.Len(), "total", bank.TotalPoints())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := app.NewQuizService(store, banks,
		app.WithBankID(cfg.Quiz.Bank),
		app.WithMaxHints(cfg.Hints()),
		app.WithRecorder(telemetry.NewMetrics(reg)),
		app.WithLogger(logger),
	)

	quizServer := tcp.NewServer(service,
		tcp.WithWorkers(cfg.Server.Workers),
		tcp.WithReadTimeout(config.TTLDuration(cfg.Server.ReadTimeout, 0)),
		tcp.WithLogger(logger),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return quizServer.ListenAndServe(gctx, cfg.ListenAddr())
	})

	if cfg.HTTP.Addr != "" {
		httpServer := &http.Server{
			Addr: cfg.HTTP.Addr,
			Handler: transport.NewRouter(transport.RouterConfig{
				WS:       transport.NewWSHandler(service),
				Gatherer: reg,
				Sessions: service.ActiveSessions,
			}),
			ReadHeaderTimeout: 60 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return gctx },
		}

		g.Go(func() error {
			logger.InfoContext(gctx, "http: listening", "addr", cfg.HTTP.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info("quiz: shutdown complete", "error", err)
	return err
}

func connectRedis(ctx context.Context, cfg config.Config) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.Redis.Addr},
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := telemetry.MonitorRedis(r); err != nil {
		return nil, err
	}
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
