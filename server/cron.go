package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/robohub/pkg/batch"
)

// cronSecretHeader is the header set by the scheduler platform
const cronSecretHeader = "x-vercel-cron-secret"

// dailyBatchHandler authenticates the trigger and runs one batch, POST /api/cron/daily-batch
func (s *Server) dailyBatchHandler(w http.ResponseWriter, r *http.Request) {
	secret := s.config.GetCronSecret()
	if secret == "" {
		lgr.Printf("[ERROR] daily batch rejected, cron secret is not configured")
		renderJSON(w, r, http.StatusInternalServerError,
			batch.Result{Success: false, Message: "CRON_SECRET is not configured", Stats: batch.EmptyStats()})
		return
	}

	provided := extractSecret(r)
	if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		lgr.Printf("[WARN] daily batch rejected, invalid secret from %s", r.RemoteAddr)
		renderJSON(w, r, http.StatusUnauthorized,
			batch.Result{Success: false, Message: "Unauthorized", Stats: batch.EmptyStats()})
		return
	}

	// a batch may take longer than the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		lgr.Printf("[DEBUG] can't reset write deadline: %v", err)
	}

	res := s.runner.Run(r.Context())
	code := http.StatusOK
	if !res.Success {
		code = http.StatusInternalServerError
	}
	renderJSON(w, r, code, res)
}

// extractSecret reads the caller secret from the cron header or the Authorization header,
// the bearer prefix is optional
func extractSecret(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(cronSecretHeader)); v != "" {
		return v
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) >= 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return auth
}
