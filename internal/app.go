package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"inventory-auth-api/config"
	"inventory-auth-api/internal/application/ports"
	"inventory-auth-api/internal/application/services"
	"inventory-auth-api/internal/infrastructure/db/postgres"
	"inventory-auth-api/internal/infrastructure/db/postgres/user"
	"inventory-auth-api/internal/infrastructure/jwt"
	"inventory-auth-api/internal/infrastructure/mailer"
	"inventory-auth-api/internal/infrastructure/metrics"
	"inventory-auth-api/internal/infrastructure/mq"
	"inventory-auth-api/internal/infrastructure/session"
	"inventory-auth-api/internal/interface/api/rest"
	"inventory-auth-api/internal/interface/api/rest/middleware"
	"inventory-auth-api/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	redis      *redis.Client
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mailer     ports.Mailer
	mq         *mq.RabbitMQ
	mqConsumer *rmqconsumer.Consumer
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// config: a missing .env is fine, the process env may carry everything
	if err = godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file loaded", zap.Error(err))
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// metrics
	mCounter := metrics.NewCounter(prometheus.DefaultRegisterer)

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecureHeaders(middleware.SecureOptions(gin.Mode() == gin.DebugMode)))
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app := &App{
		logger:   logger,
		cfg:      cfg,
		httpSrv:  httpSrv,
		router:   r,
		mCounter: mCounter,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		return nil, fmt.Errorf("DB config error: %w", err)
	}
	if app.db, err = postgres.New(ctx, logger, dbDsn); err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err = postgres.Migrate(ctx, logger, app.db); err != nil {
			app.Close()
			return nil, err
		}
	}

	// session store
	store, err := app.sessionStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	r.Use(middleware.Session(store, logger))

	// mail transport
	if err = app.initMailer(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

func (a *App) sessionStore(ctx context.Context) (session.Store, error) {
	opts := session.Options{
		CookieName: a.cfg.Session.CookieName,
		TTL:        a.cfg.Session.TTL,
		Secure:     a.cfg.Session.Secure,
	}

	switch a.cfg.Session.Backend {
	case config.SessionBackendRedis:
		a.redis = redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.logger.Info("redis session store ready", zap.String("addr", a.cfg.Redis.Addr))
		return session.NewRedisStore(a.redis, opts), nil
	default:
		return session.NewCookieStore(jwt.New(a.cfg.Session.Secret), opts), nil
	}
}

// initMailer picks the transport for recovery mail. With amqp the request
// waits for the broker confirm and the relay consumer delivers over SMTP.
func (a *App) initMailer(ctx context.Context) error {
	smtpSender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     a.cfg.SMTP.Host,
		Port:     a.cfg.SMTP.Port,
		User:     a.cfg.SMTP.User,
		Password: a.cfg.SMTP.Password,
	}, a.logger)

	switch a.cfg.Mail.Transport {
	case config.MailTransportSMTP:
		a.mailer = smtpSender
	case config.MailTransportAMQP:
		rabbitDsn, err := a.cfg.AMQPDSN()
		if err != nil {
			return fmt.Errorf("RabbitMQ config error: %w", err)
		}

		rbMQ := mq.New(a.cfg.MQ, a.logger)
		if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
			return fmt.Errorf("failed to connect to rabbitMQ: %w", err)
		}
		a.mq = rbMQ
		if err = rbMQ.Init(); err != nil {
			return fmt.Errorf("failed init rabbitMQ: %w", err)
		}

		consumer := rmqconsumer.New(a.cfg.MQ, a.logger, smtpSender)
		if err = consumer.Connect(rabbitDsn); err != nil {
			return fmt.Errorf("failed to connect rabbitMQ consumer: %w", err)
		}
		a.mqConsumer = consumer
		if err = consumer.Init(); err != nil {
			return fmt.Errorf("failed to init rabbitMQ consumer: %w", err)
		}

		a.mailer = rbMQ
	default:
		a.mailer = mailer.NewLogSender(a.logger)
	}

	a.logger.Info("mail transport ready",
		zap.String("transport", a.cfg.Mail.Transport),
		zap.String("smtp", a.cfg.SMTPAddr()),
	)

	return nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
	}
	if a.mq != nil {
		a.mq.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func (a *App) InitControllers() {
	// repos
	userRepo := user.NewRepository(a.db)

	// services
	authService := services.NewAuthService(
		userRepo,
		a.mailer,
		services.AuthConfig{
			MailFrom: a.cfg.Mail.From,
			ResetURL: a.cfg.ResetPasswordURL(),
		},
		a.logger,
		a.mCounter,
	)
	userService := services.NewUserService(userRepo, a.logger, a.mCounter)

	// controllers
	secure := a.cfg.Session.Secure
	rest.NewAuthController(a.router, a.logger, authService, userService, secure)
	rest.NewUserController(a.router, userService, authService, a.logger, a.cfg.Auth.AdminRoleID, secure)
	rest.NewPageController(a.router, a.logger, authService, a.cfg.App.LoginURL, a.cfg.App.LandingURL)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
