package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/jask/bankdesk/internal/config"
	"github.com/jask/bankdesk/internal/fakebank"
	"github.com/jask/bankdesk/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file, using environment and config only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config")
	}

	logger, err := logging.New(os.Stdout, cfg.Log.Level)
	if err != nil {
		logrus.WithError(err).Fatal("logger")
	}
	log := logging.Component(logger, "fakebank")

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	bank := fakebank.NewBank(nil)
	srv := &http.Server{
		Addr:         cfg.Fake.Addr,
		Handler:      fakebank.NewServer(bank, cfg.Fake.SessionKey, log).Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return sigCtx
		},
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-sigCtx.Done()
	log.Info("stopping server")

	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
