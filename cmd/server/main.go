package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/techhive/commerce/internal/cart"
	"github.com/techhive/commerce/internal/catalog"
	"github.com/techhive/commerce/internal/config"
	"github.com/techhive/commerce/internal/customer"
	"github.com/techhive/commerce/internal/events"
	"github.com/techhive/commerce/internal/handlers"
	"github.com/techhive/commerce/internal/logging"
	"github.com/techhive/commerce/internal/middleware/loggingmw"
	"github.com/techhive/commerce/internal/order"
	"github.com/techhive/commerce/internal/store"
	httpserver "github.com/techhive/commerce/internal/transport/http"
	"github.com/techhive/commerce/internal/users"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if configuration.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET is required")
	}

	logger := logging.New(configuration.LOG_LEVEL)

	st, err := store.New(configuration.DATA_DIR)
	if err != nil {
		log.Fatalf("data store init error: %v", err)
	}

	prod := events.NewProducer(configuration.KAFKA_ADDRESS)

	jwtSecret := []byte(configuration.JWT_SECRET)
	cat := &catalog.Catalog{Store: st}
	ledger := &cart.Ledger{Store: st, Catalog: cat}
	orders := &order.Builder{Store: st, Catalog: cat, Cart: ledger}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		JWTSecret: jwtSecret,
		AuthHandler: &handlers.AuthHandler{
			Directory: &customer.Directory{Store: st},
			Users:     &users.Service{Store: st},
			JWTSecret: jwtSecret,
			Producer:  prod,
		},
		CartHandler:     &handlers.CartHandler{Cart: ledger, Producer: prod},
		CheckoutHandler: &handlers.CheckoutHandler{Orders: orders, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Catalog: cat, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{Orders: orders, Producer: prod},
		DataHandler:     &handlers.DataHandler{Store: st},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "addr", configuration.HTTP_ADDR, "data_dir", configuration.DATA_DIR)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := prod.Close(); err != nil {
		logger.Error("producer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
