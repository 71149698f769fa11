package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/inyangojubirobert/bookofmemes-backend/config"
	"github.com/inyangojubirobert/bookofmemes-backend/database"
	"github.com/inyangojubirobert/bookofmemes-backend/middleware"
	"github.com/inyangojubirobert/bookofmemes-backend/routes"
	"github.com/inyangojubirobert/bookofmemes-backend/services"
	"github.com/inyangojubirobert/bookofmemes-backend/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("Server: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.ConfigureLogging()

	records, closer, err := newStore(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.FirebaseCredentialsPath != "" {
		push, err := services.NewPushNotifier(ctx, cfg.FirebaseCredentialsPath, records)
		if err != nil {
			log.Printf("[FCM] Firebase init failed, push notifications disabled: %v", err)
		} else {
			notifier = push
		}
	} else {
		log.Println("[FCM] FIREBASE_CREDENTIALS_PATH not set, push notifications disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(services.New(records, notifier), middleware.NewAuthenticator(cfg.SupabaseJWTSecret))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	router.Use(middleware.Logging, middleware.NewMetrics(reg).Handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.NewCORS(cfg.AllowedOrigins).Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s (store=%s)", cfg.Port, cfg.StoreDriver)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newStore builds the record store for the configured driver.
func newStore(cfg *config.Config) (store.RecordStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(db), db, nil
	case config.DriverSupabase:
		s, err := store.NewSupabase(store.SupabaseConfig{
			URL:    cfg.SupabaseURL,
			APIKey: cfg.SupabaseServiceRoleKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	default:
		log.Warn("Store: using in-memory records, data is lost on restart")
		return store.NewMemory(), nopCloser{}, nil
	}
}
