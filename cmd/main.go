package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/neecogreen/checkout-service/internal/app"
	"github.com/neecogreen/checkout-service/internal/config"
	"github.com/neecogreen/checkout-service/internal/delhivery"
	"github.com/neecogreen/checkout-service/internal/events"
	"github.com/neecogreen/checkout-service/internal/handler"
	"github.com/neecogreen/checkout-service/internal/middleware"
	"github.com/neecogreen/checkout-service/internal/postgres"
	"github.com/neecogreen/checkout-service/internal/razorpay"
	"github.com/neecogreen/checkout-service/internal/repo"
	"github.com/neecogreen/checkout-service/internal/service"
	"github.com/neecogreen/checkout-service/pkg/trm"

	_ "github.com/neecogreen/checkout-service/docs"
	"github.com/joho/godotenv"
)

// @title           Checkout Service API
// @version         1.0
// @description     Payment, shipping and order API for the storefront
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	orderRepo := repo.NewOrderRepo(db)
	cartRepo := repo.NewCartRepo(db)
	userRepo := repo.NewUserRepo(db)
	txManager := trm.NewManager(db)

	gateway := razorpay.NewClient(conf.Razorpay)
	carrier := delhivery.NewClient(conf.Delhivery)
	publisher := events.NewPublisher(logger, conf.Kafka)

	paymentService := service.NewPaymentService(logger, gateway, orderRepo, publisher, conf.Razorpay.KeySecret)
	shipmentService := service.NewShipmentService(logger, carrier, orderRepo, publisher, conf.Delhivery.FallbackRate)
	orderService := service.NewOrderService(logger, txManager, orderRepo)
	cartService := service.NewCartService(logger, txManager, cartRepo)
	authService := service.NewAuthService(logger, userRepo, conf.JWT.Secret, conf.JWT.TTL)

	httpHandler := handler.NewHTTPHandler(
		logger,
		paymentService,
		shipmentService,
		orderService,
		cartService,
		authService,
		middleware.Auth(conf.JWT.Secret),
	)

	app := app.New(logger, conf)
	app.SetHTTPHandlers(httpHandler)
	app.SetClosers(publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	panicIfErr("application error", app.Run(ctx))
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}
