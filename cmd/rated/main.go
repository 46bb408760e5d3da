package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/rate/internal/api"
	"github.com/idilsaglam/rate/internal/auth"
	"github.com/idilsaglam/rate/internal/config"
	"github.com/idilsaglam/rate/internal/logging"
	"github.com/idilsaglam/rate/internal/storage"
	"github.com/idilsaglam/rate/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	listenAddress := flag.String("listen", cfg.Server.Addr, "The address to listen on.")
	logLevel := flag.String("loglevel", "info", "The log level (debug, info, warn, error).")
	storeKind := flag.String("store", cfg.Store, "store backend: json, sqlite, postgres, redis, memory")
	seed := flag.String("seed", "", "comma separated season titles to create when the catalog is empty")
	issue := flag.String("issue-token", "", "print a token for this subject and exit")
	verified := flag.Bool("verified", true, "email_verified claim for -issue-token")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime for -issue-token")
	flag.Parse()

	cfg.Log.Level = *logLevel
	if _, err := logging.Setup(cfg.Log, nil); err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	secret := []byte(cfg.Server.JWTSecret)

	if *issue != "" {
		if len(secret) == 0 {
			logrus.Fatal("RATED_JWT_SECRET must be set to issue tokens")
		}
		tok, err := auth.Sign(secret, *issue, "", *verified, *ttl)
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Println(tok)
		return
	}

	cfg.Store = *storeKind
	if storage.Remote(cfg.Store) {
		logrus.Fatal("the API cannot be served from the http store")
	}
	ctx := context.Background()
	st, err := storage.Open(ctx, cfg, "")
	if err != nil {
		logrus.WithError(err).Fatal("failed to open store")
	}
	defer st.Close()

	if err := seedCatalog(ctx, st, *seed); err != nil {
		logrus.WithError(err).Fatal("failed to seed seasons")
	}
	if len(secret) == 0 {
		logrus.Warn("RATED_JWT_SECRET is empty: every request acts as the local user")
	}

	srv := &http.Server{
		Addr:              *listenAddress,
		Handler:           api.NewRouter(st, api.Options{Secret: secret, Origins: cfg.Server.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(srv)
}

func seedCatalog(ctx context.Context, st store.Store, titles string) error {
	if strings.TrimSpace(titles) == "" {
		return nil
	}
	existing, err := st.Seasons(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	ed, ok := st.(store.SeasonEditor)
	if !ok {
		return store.ErrReadOnly
	}
	for _, t := range strings.Split(titles, ",") {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		if _, err := ed.AddSeason(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func waitForShutdown(srv *http.Server) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	logrus.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("shutdown")
	}
}
