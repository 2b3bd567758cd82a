package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scamwatch.org/internal/auth"
	"scamwatch.org/internal/company"
	"scamwatch.org/internal/httpapi"
	"scamwatch.org/internal/migrate"
	"scamwatch.org/internal/obs"
	"scamwatch.org/internal/scam/remote"
	"scamwatch.org/internal/store/pg"
)

var version = "0.3.1"

func main() {
	obs.Init()

	secret := os.Getenv("SCAMWATCH_AUTH_SECRET")
	codec, err := auth.NewCodec(secret)
	if err != nil {
		log.Fatalf("auth secret: %v", err)
	}

	dsn := os.Getenv("SCAMWATCH_IDENTITY_PG_DSN")
	if dsn == "" {
		log.Fatal("SCAMWATCH_IDENTITY_PG_DSN is required")
	}
	db, err := pg.Open(dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrate.New(db, pg.IdentityMigrations()).Up(migrateCtx); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	cancelMigrate()

	reportsURL := os.Getenv("SCAMWATCH_REPORTS_URL")
	if reportsURL == "" {
		reportsURL = "http://localhost:8082"
	}
	fetchTimeout := 5 * time.Second
	if raw := os.Getenv("SCAMWATCH_REPORTS_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			fetchTimeout = d
		}
	}

	companies := pg.NewCompanyStore(db)
	svc := company.NewService(companies, codec)
	scams := remote.New(reportsURL, remote.WithTimeout(fetchTimeout))

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, codec, companies, svc, scams)

	addr := os.Getenv("SCAMWATCH_IDENTITY_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting scamwatch-identity %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = db.Close()
	log.Println("Stopped")
}
