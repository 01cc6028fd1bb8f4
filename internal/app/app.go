// Package app wires configuration, storage, services and HTTP together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/handler"
	"github.com/iliyamo/ecommerce-backend/internal/mailer"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/queue"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
	"github.com/iliyamo/ecommerce-backend/internal/repository/mongorepo"
	"github.com/iliyamo/ecommerce-backend/internal/repository/mysqlrepo"
	"github.com/iliyamo/ecommerce-backend/internal/router"
	"github.com/iliyamo/ecommerce-backend/internal/service"
)

// Deps are the outside-world collaborators of the HTTP stack. Tests build
// them by hand; New builds them from Config.
type Deps struct {
	Repos     repository.Repositories
	Ping      func(ctx context.Context) error
	Mail      mailer.Sender
	Events    service.SaleEvents
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
}

// App owns the echo server and everything that must be closed with it.
type App struct {
	Echo *echo.Echo

	cfg       config.Config
	log       zerolog.Logger
	publisher *queue.Publisher
	closers   []func() error
}

// New opens the configured backend, picks the mail transport and builds
// the HTTP stack.
func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log, publisher: queue.NewPublisher(cfg.AMQPURL, log)}

	repos, ping, err := a.openBackend()
	if err != nil {
		return nil, err
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
	} else {
		log.Warn().Msg("redis unavailable, rate limiting disabled")
	}

	a.Echo = Build(cfg, log, Deps{
		Repos:     repos,
		Ping:      ping,
		Mail:      a.mailSender(),
		Events:    a.publisher,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
	})
	return a, nil
}

func (a *App) openBackend() (repository.Repositories, func(context.Context) error, error) {
	switch a.cfg.DBType {
	case config.BackendMySQL:
		db, err := database.Open(a.cfg.DBUser, a.cfg.DBPass, a.cfg.DBHost, a.cfg.DBPort, a.cfg.DBName, a.cfg.DBConnLimit)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("open mysql: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.log.Info().Str("host", a.cfg.DBHost).Str("db", a.cfg.DBName).Msg("using mysql backend")
		return mysqlrepo.New(db), sqlPing(db), nil

	case config.BackendMongo:
		client, db, err := database.OpenMongo(a.cfg.MongoURI, a.cfg.DBName, a.cfg.DBConnLimit)
		if err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("open mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return repository.Repositories{}, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		a.log.Info().Str("db", a.cfg.DBName).Msg("using mongo backend")
		return mongorepo.New(db), mongoPing(client), nil
	}
	return repository.Repositories{}, nil, fmt.Errorf("unknown backend %q", a.cfg.DBType)
}

func sqlPing(db *sql.DB) func(context.Context) error {
	return db.PingContext
}

func mongoPing(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error { return client.Ping(ctx, nil) }
}

func (a *App) smtpSender() *mailer.SMTPSender {
	return mailer.NewSMTPSender(a.cfg.MailHost, a.cfg.MailPort, a.cfg.MailUser, a.cfg.MailPassword, a.cfg.MailFrom)
}

func (a *App) mailSender() mailer.Sender {
	switch a.cfg.MailTransport {
	case config.MailQueue:
		return queue.QueueSender{Publisher: a.publisher}
	case config.MailLog:
		return mailer.LogSender{Log: a.log.With().Str("component", "mail").Logger()}
	default:
		return a.smtpSender()
	}
}

// Build assembles services, handlers and routes on a fresh echo instance.
func Build(cfg config.Config, log zerolog.Logger, d Deps) *echo.Echo {
	r := d.Repos
	products := service.NewProductService(r.Products)

	h := router.Handlers{
		Health: handler.Health(d.Ping),
		Catalog: &handler.CatalogHandler{
			Products:      products,
			Categories:    service.NewCategoryService(r.Categories),
			States:        service.NewStateService(r.States),
			Roles:         service.NewRoleService(r.Roles, cfg.DefaultRole),
			Configuration: service.NewConfigurationService(r.Configuration),
			Contacts:      service.NewContactService(r.Contacts),
		},
		Publications: &handler.PublicationHandler{
			Publications: service.NewPublicationService(r.Publications, r.Products, r.Categories),
		},
		Users: &handler.UserHandler{
			Users: service.NewUserService(r, d.Mail, service.UserConfig{
				JWTSecret:    cfg.JWTSecret,
				AccessTTLMin: cfg.AccessTTLMin,
				BcryptCost:   cfg.BcryptCost,
				DefaultRole:  cfg.DefaultRole,
				PublicHost:   cfg.PublicHost,
			}),
		},
		Sales: &handler.SaleHandler{Sales: service.NewSaleService(r.Sales, r.Publications, d.Events)},
		Images: &handler.ImageHandler{
			Images:   service.NewImageService(r.Images, r.Products, cfg.ProductImagesDir, log),
			Products: products,
		},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)
	e.Validator = handler.NewValidator()

	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	cors := echomw.DefaultCORSConfig
	if len(cfg.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSOrigins
	}
	cors.AllowHeaders = []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "x-access-token"}
	e.Use(echomw.CORSWithConfig(cors))
	e.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis, log))

	router.RegisterRoutes(e, h, cfg.JWTSecret)
	return e
}

// Run starts the queue consumers and serves HTTP until ctx is cancelled,
// then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	saleLog := a.log.With().Str("component", "sale-consumer").Logger()
	go func() {
		_ = queue.Consume(ctx, a.cfg.AMQPURL, queue.SaleCreatedQueue, saleLog, queue.SaleLogHandler("logs"))
	}()
	if a.cfg.MailTransport == config.MailQueue {
		mailLog := a.log.With().Str("component", "mail-consumer").Logger()
		go func() {
			_ = queue.Consume(ctx, a.cfg.AMQPURL, queue.MailQueue, mailLog, queue.MailHandler(a.smtpSender()))
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("listening")
		errCh <- a.Echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("close")
		}
	}
}
