package appcontext

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ApplicationContext struct {
	Cf     *config.Config
	Logger *zerolog.Logger

	DbConn *gorm.DB
	DbDao  *db.DbDao
	Rdb    *redis.Client

	Producer      producer.IOrderEventProducer
	MetricsBuffer *metrics.Buffer

	UserService     service.IUserService
	CatalogService  service.ICatalogService
	CartService     service.ICartService
	PricingService  service.IPricingService
	CheckoutService service.ICheckoutService
	OrderService    service.IOrderService
	PaymentService  service.IPaymentService
	AddressService  service.IAddressService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	app := ApplicationContext{
		Cf: cf,
	}
	err := app.Init()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	app.setUpLogger()

	err := app.setUpdbConn()
	if err != nil {
		return err
	}
	err = app.setUpdbDao()
	if err != nil {
		return err
	}
	err = app.setUpRedis()
	if err != nil {
		return err
	}
	app.setUpProducer()
	app.setUpMetricsBuffer()
	app.setUpServices()
	return nil
}

func (app *ApplicationContext) setUpLogger() {
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "storefront").
		Logger()
	app.Logger = &logger
}

func (app *ApplicationContext) setUpdbConn() error {
	log.Printf("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbConn = conn
	log.Printf("Finish setup database connection")
	return nil
}

func (app *ApplicationContext) setUpdbDao() error {
	log.Printf("Start setup database DAO")
	app.DbDao = db.NewDbDao(app.DbConn)
	err := app.DbDao.InitMigrate()
	if err != nil {
		return err
	}
	log.Printf("Finish setup database DAO")
	return nil
}

func (app *ApplicationContext) setUpRedis() error {
	log.Printf("Start setup redis client")
	app.Rdb = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPas,
	})
	if err := app.Rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	log.Printf("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpProducer() {
	log.Printf("Start setup order event producer")
	app.Producer = producer.NewOrderEventProducer(app.Cf.KafkaBrokerList(), app.Cf.KafkaOrderTopic)
	log.Printf("Finish setup order event producer")
}

func (app *ApplicationContext) setUpMetricsBuffer() {
	app.MetricsBuffer = metrics.NewBuffer(app.Cf.MetricsBufferSize)
}

func (app *ApplicationContext) setUpServices() {
	log.Printf("Start setup services")

	userRepo := db.NewUserRepo(app.DbDao)
	sessionRepo := db.NewSessionRepo(app.DbDao)
	productRepo := db.NewProductRepo(app.DbDao)
	inventoryRepo := db.NewInventoryRepo(app.DbDao)
	cartRepo := db.NewCartRepo(app.DbDao)
	couponRepo := db.NewCouponRepo(app.DbDao)
	orderRepo := db.NewOrderRepo(app.DbDao)
	paymentRepo := db.NewPaymentRepo(app.DbDao)
	addressRepo := db.NewAddressRepo(app.DbDao)
	productCacheRepo := redis_repo.NewProductCacheRepo(app.Rdb)

	provider := payment.NewClient(app.Cf.PaymentAPIURL, app.Cf.PaymentSecretKey)

	app.UserService = service.NewUserService(userRepo, sessionRepo)
	app.CatalogService = service.NewCatalogService(productRepo, inventoryRepo, productCacheRepo, app.Logger)
	app.CartService = service.NewCartService(cartRepo, app.CatalogService)
	app.PricingService = service.NewPricingService(productRepo, couponRepo,
		app.Cf.TaxRate, app.Cf.ShippingFee, app.Cf.FreeShippingThreshold)
	app.CheckoutService = service.NewCheckoutService(orderRepo, inventoryRepo, app.PricingService, app.Producer, app.Logger)
	app.OrderService = service.NewOrderService(orderRepo, app.Producer, app.Logger)
	app.PaymentService = service.NewPaymentService(paymentRepo, orderRepo, provider, app.Producer, app.Cf.Currency, app.Logger)
	app.AddressService = service.NewAddressService(addressRepo)

	log.Printf("Finish setup services")
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Printf("Start application shutdown")

	done := make(chan error)
	go func() {
		defer close(done)

		if app.Producer != nil {
			log.Printf("Closing order event producer...")
			if err := app.Producer.Close(); err != nil {
				//有錯誤不結束流程
				log.Printf("producer shutdown error: %v", err)
			}
		}

		if app.Rdb != nil {
			log.Printf("Closing redis client...")
			if err := app.Rdb.Close(); err != nil {
				log.Printf("redis shutdown error: %v", err)
			}
		}

		if app.DbConn != nil {
			log.Printf("Closing database connection...")
			if sqlDB, err := app.DbConn.DB(); err == nil {
				sqlDB.Close()
			}
		}

		log.Printf("Application shutdown complete")
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %v", ctx.Err())
	}
}
