package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/adapters/http/middleware"
	accountStore "gymdesk/internal/adapters/storage/account"
	bookingStore "gymdesk/internal/adapters/storage/booking"
	equipmentStore "gymdesk/internal/adapters/storage/equipment"
	classStore "gymdesk/internal/adapters/storage/gymclass"
	memberStore "gymdesk/internal/adapters/storage/member"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	reportStore "gymdesk/internal/adapters/storage/report"
	trainerStore "gymdesk/internal/adapters/storage/trainer"
	"gymdesk/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore   accountStore.Store
	MemberStore    memberStore.Store
	TrainerStore   trainerStore.Store
	ClassStore     classStore.Store
	BookingStore   bookingStore.Store
	PaymentStore   paymentStore.Store
	EquipmentStore equipmentStore.Store
	ReportStore    reportStore.Store
}

// loadCSRFKey reads the CSRF secret from GYMDESK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GYMDESK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GYMDESK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GYMDESK_ENV") == "production" {
		log.Fatal("GYMDESK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set GYMDESK_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// UploadsDir is where receipt uploads land. Tests can point it elsewhere.
var UploadsDir = "uploads"

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// redeemRememberToken adapts the remember-me orchestrator for the Auth
// middleware.
func redeemRememberToken(s *Stores) middleware.RedeemFunc {
	return func(ctx context.Context, rawToken string) (middleware.Session, error) {
		result, err := orchestrators.ExecuteRedeemRememberToken(ctx, rawToken, orchestrators.RememberDeps{
			AccountStore: s.AccountStore,
		})
		if err != nil {
			return middleware.Session{}, err
		}
		return middleware.Session{
			AccountID: result.AccountID,
			Username:  result.Username,
			Email:     result.Email,
			FullName:  result.FullName,
			Role:      result.Role,
		}, nil
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores) http.Handler {
	stores = s
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("GYMDESK_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions, redeemRememberToken(s)),
		middleware.RateLimit(limiter),
		middleware.Timing(),
	)
}
