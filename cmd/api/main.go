package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ec-checkout/internal/config"
	"ec-checkout/internal/handler"
	"ec-checkout/internal/infra/db"
	"ec-checkout/internal/infra/logger"
	infraRepo "ec-checkout/internal/infra/repository"
	"ec-checkout/internal/server"
	"ec-checkout/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	//.envは任意（無ければ環境変数だけ）
	config.LoadDotEnv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	//DB接続
	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DSN()); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gormDB) }()

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	clock := usecase.SystemClock()

	//Usecase生成
	priceUC := usecase.NewPriceUsecase(productRepo, log.Named("price"))
	cartUC := usecase.NewCartUsecase(userRepo, txm, clock, log.Named("cart"))
	orderUC := usecase.NewOrderUsecase(userRepo, txm, clock, log.Named("order"), cfg.CheckoutClearCart)

	//Handler生成
	e := server.New(cfg, log, server.Handlers{
		Products: handler.NewProductHandler(priceUC),
		Cart:     handler.NewCartHandler(cartUC),
		Orders:   handler.NewOrderHandler(orderUC),
	}, func(ctx context.Context) error {
		return db.Ping(ctx, gormDB)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Addr()))
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
