package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/storage"
	accountStore "gymdesk/internal/adapters/storage/account"
	bookingStore "gymdesk/internal/adapters/storage/booking"
	equipmentStore "gymdesk/internal/adapters/storage/equipment"
	classStore "gymdesk/internal/adapters/storage/gymclass"
	memberStore "gymdesk/internal/adapters/storage/member"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	reportStore "gymdesk/internal/adapters/storage/report"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfgPath := os.Getenv("GYMDESK_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Slow-query logging wraps every store.
	timedDB := storage.NewTimedDB(db)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:   acctStore,
		MemberStore:    memberStore.NewSQLiteStore(timedDB),
		TrainerStore:   trainerStore.NewSQLiteStore(timedDB),
		ClassStore:     classStore.NewSQLiteStore(timedDB),
		BookingStore:   bookingStore.NewSQLiteStore(timedDB),
		PaymentStore:   paymentStore.NewSQLiteStore(timedDB),
		EquipmentStore: equipmentStore.NewSQLiteStore(timedDB),
		ReportStore:    reportStore.NewSQLiteStore(timedDB),
	}

	// Seed the first admin account when the accounts table is empty.
	adminPassword := cfg.Admin.Password
	if adminPassword == "" {
		// Development convenience only; Load rejects this in production.
		adminPassword = "gymdesk123"
		log.Println("WARNING: using default admin password (set GYMDESK_ADMIN_PASSWORD)")
	}
	seedInput := orchestrators.SeedAdminInput{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: adminPassword,
	}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedInput, orchestrators.SeedAdminDeps{AccountStore: acctStore}); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	if cfg.Email.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.Email.ResendKey, cfg.Email.From))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if cfg.IsProduction() {
			log.Println("WARNING: GYMDESK_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GYMDESK_RESEND_KEY for real delivery)")
		}
	}

	web.UploadsDir = cfg.Server.UploadsDir
	mux := web.NewMux(cfg.Server.StaticDir, stores)

	srv := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     mux,
		ReadTimeout: config.ReadTimeout,
	}
	log.Printf("GymDesk %s starting on %s (env=%s, schema=%d)", version, cfg.Server.Addr, cfg.Env, storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
