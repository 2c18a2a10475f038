package appcontext

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/RoyceAzure/lab/shop/internal/config"
	"github.com/RoyceAzure/lab/shop/internal/infra/kafka"
	"github.com/RoyceAzure/lab/shop/internal/infra/producer"
	"github.com/RoyceAzure/lab/shop/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/shop/internal/infra/redis_client"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/shop/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/shop/internal/logger"
	"github.com/RoyceAzure/lab/shop/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger zerolog.Logger

	DbConn      *gorm.DB
	DbDao       *db.UnifiedDBImpl
	RedisClient *redis.Client
	// 沒有設定 KAFKA_BROKERS 時為 nil
	EventProducer kafka.Producer
	LogSink       *logger.KafkaWriter
	Publisher     producer.OrderEventPublisher
	Limiter       ratelimit.Limiter

	CartService      *service.CartService
	AddressService   *service.AddressService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
	CheckoutService  *service.CheckoutService
	UserService      *service.UserService
	ProductService   *service.ProductService
}

func NewApplicationContext(ctx context.Context, cf *config.Config) (*ApplicationContext, error) {
	app := &ApplicationContext{Cf: cf}
	if err := app.Init(ctx); err != nil {
		// 已建立的連線要釋放
		app.Shutdown(context.Background())
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"logger", app.setUpLogger},
		{"database connection", app.setUpDbConn},
		{"database schema", app.setUpSchema},
		{"redis client", app.setUpRedis},
		{"event producer", app.setUpEventProducer},
		{"services", app.setUpServices},
		{"rate limiter", app.setUpLimiter},
		{"seed catalog", app.setUpSeed},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("setup %s failed: %w", step.name, err)
		}
		app.Logger.Debug().Str("step", step.name).Msg("setup finished")
	}
	return nil
}

// log 等級交給 SetGlobalLevel，設定檔變動時可以直接調整
func (app *ApplicationContext) setUpLogger(_ context.Context) error {
	opts := logger.Options{
		Service: app.Cf.ServiceName,
		Format:  app.Cf.LogFormat,
	}
	logger.SetGlobalLevel(app.Cf.LogLevel)

	if brokers := app.Cf.Brokers(); len(brokers) > 0 && app.Cf.KafkaLogTopic != "" {
		p, err := kafka.NewProducer(kafka.DefaultConfig(brokers, app.Cf.KafkaLogTopic), zerolog.Nop())
		if err != nil {
			return err
		}
		app.LogSink = logger.NewKafkaWriter(p)
		opts.Sinks = []io.Writer{app.LogSink}
	}

	app.Logger = logger.New(opts)
	return nil
}

func (app *ApplicationContext) connConfig() db.ConnConfig {
	return db.ConnConfig{
		DbName:   app.Cf.DbName,
		Host:     app.Cf.DbHost,
		Port:     app.Cf.DbPort,
		User:     app.Cf.DbUser,
		Password: app.Cf.DbPas,
	}
}

func (app *ApplicationContext) setUpDbConn(_ context.Context) error {
	conn, err := db.GetDbConn(app.connConfig(), &app.Logger)
	if err != nil {
		return err
	}
	app.DbConn = conn
	app.DbDao = db.NewUnifiedDB(conn)
	return nil
}

// 有 MIGRATION_PATH 時用 sql migration，否則 AutoMigrate
func (app *ApplicationContext) setUpSchema(_ context.Context) error {
	if app.Cf.MigrationPath != "" {
		return db.RunMigrations(app.Cf.MigrationPath, app.connConfig().URL())
	}
	return app.DbDao.InitMigrate()
}

func (app *ApplicationContext) setUpRedis(ctx context.Context) error {
	client, err := redis_client.GetRedisClient(ctx, app.Cf.RedisAddr,
		redis_client.WithPassword(app.Cf.RedisPassword),
		redis_client.WithDB(app.Cf.RedisDB),
	)
	if err != nil {
		return err
	}
	app.RedisClient = client
	return nil
}

func (app *ApplicationContext) setUpEventProducer(_ context.Context) error {
	brokers := app.Cf.Brokers()
	if len(brokers) == 0 {
		app.Logger.Warn().Msg("KAFKA_BROKERS not set, order events disabled")
		return nil
	}

	p, err := kafka.NewProducer(kafka.DefaultConfig(brokers, app.Cf.KafkaOrderTopic), app.Logger)
	if err != nil {
		return err
	}
	app.EventProducer = p
	app.Publisher = producer.NewOrderEventProducer(p)
	return nil
}

func (app *ApplicationContext) setUpServices(_ context.Context) error {
	cartRepo := redis_repo.NewCartRepo(app.RedisClient, app.Cf.CartTTL)

	app.CartService = service.NewCartService(cartRepo, app.DbDao, app.Logger)
	app.AddressService = service.NewAddressService(app.DbDao)
	app.InventoryService = service.NewInventoryService(app.DbDao, app.Logger)
	app.OrderService = service.NewOrderService(app.DbDao, app.Publisher, app.Logger)
	app.UserService = service.NewUserService(app.DbDao)
	app.ProductService = service.NewProductService(app.DbDao)
	app.CheckoutService = service.NewCheckoutService(
		app.CartService,
		app.AddressService,
		app.InventoryService,
		app.OrderService,
		app.DbDao,
		app.DbDao,
		app.Publisher,
		app.Logger,
	)
	return nil
}

// RATE_LIMIT_STORE=memory 時每個instance各自計算
func (app *ApplicationContext) setUpLimiter(_ context.Context) error {
	cfg := ratelimit.LimiterConfig{
		Capacity: app.Cf.RateLimitCapacity,
		RatePS:   float64(app.Cf.RateLimitPerSecond),
	}
	switch app.Cf.RateLimitStore {
	case "", "redis":
		app.Limiter = ratelimit.NewRedisTokenBucket(app.RedisClient, cfg, app.Logger)
	case "memory":
		app.Limiter = ratelimit.NewTokenBucket(cfg)
	default:
		return fmt.Errorf("unknown RATE_LIMIT_STORE %q", app.Cf.RateLimitStore)
	}
	return nil
}

func (app *ApplicationContext) setUpSeed(ctx context.Context) error {
	if app.Cf.SeedPath == "" {
		return nil
	}
	catalog, err := config.LoadSeedCatalog(app.Cf.SeedPath)
	if err != nil {
		return err
	}
	return service.ImportSeedCatalog(ctx, catalog, app.UserService, app.ProductService, app.Logger)
}

// Shutdown 依建立的反向順序關閉，錯誤合併回傳
func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		var errs []error
		if app.EventProducer != nil {
			errs = append(errs, app.EventProducer.Close())
		}
		if app.RedisClient != nil {
			errs = append(errs, app.RedisClient.Close())
		}
		if app.DbConn != nil {
			if sqlDB, err := app.DbConn.DB(); err == nil {
				errs = append(errs, sqlDB.Close())
			}
		}
		// log sink 最後關，前面的錯誤還能寫出去；關閉時會送完 buffer 內的 log
		if app.LogSink != nil {
			if dropped := app.LogSink.Dropped(); dropped > 0 {
				app.Logger.Warn().Uint64("dropped", dropped).Msg("kafka log sink dropped logs")
			}
			errs = append(errs, app.LogSink.Close())
		}
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// ApplyConfig 設定檔熱更新，目前只調整 log 等級
func (app *ApplicationContext) ApplyConfig(cf *config.Config) {
	lv := logger.SetGlobalLevel(cf.LogLevel)
	app.Logger.Info().Str("level", lv.String()).Msg("config reloaded")
}
