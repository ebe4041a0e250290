// Package http exposes the finance API over JSON.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tongxing977-max/project50k-backend/internal/auth"
	"github.com/tongxing977-max/project50k-backend/internal/core"
	"github.com/tongxing977-max/project50k-backend/internal/storage"
)

type (
	// DashboardProvider computes the snapshot for one user.
	DashboardProvider interface {
		Overview(ctx context.Context, userID int64) (core.DashboardSnapshot, error)
	}

	// TransactionManager covers the ledger operations.
	TransactionManager interface {
		Create(ctx context.Context, userID int64, t core.Transaction) (core.Transaction, error)
		List(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error)
		Delete(ctx context.Context, userID, id int64) error
	}

	// DebtManager covers the debt operations.
	DebtManager interface {
		Create(ctx context.Context, userID int64, d core.Debt) (core.Debt, error)
		List(ctx context.Context, userID int64) ([]core.Debt, error)
		Pay(ctx context.Context, userID, debtID int64, amount core.Money) (core.Debt, error)
		Delete(ctx context.Context, userID, id int64) error
	}

	// GoalStore persists the goal configuration.
	GoalStore interface {
		GetGoal(ctx context.Context, userID int64) (core.GoalConfig, error)
		SaveGoal(ctx context.Context, userID int64, g core.GoalConfig) error
		UpdateGoal(ctx context.Context, userID int64, patch storage.GoalPatch) (core.GoalConfig, error)
	}

	// BudgetStore persists per-category budgets.
	BudgetStore interface {
		ListBudgets(ctx context.Context, userID int64) ([]core.BudgetLimit, error)
		UpsertBudget(ctx context.Context, userID int64, b core.BudgetLimit) error
	}

	// UserStore persists accounts.
	UserStore interface {
		CreateUser(ctx context.Context, username, email, passwordHash string) (int64, error)
		GetUserByUsername(ctx context.Context, username string) (storage.User, error)
	}
)

// Deps bundles everything the handlers need.
type Deps struct {
	Dashboard    DashboardProvider
	Transactions TransactionManager
	Debts        DebtManager
	Goals        GoalStore
	Budgets      BudgetStore
	Users        UserStore
	Tokens       *auth.TokenService
	Clock        core.Clock
}

type Server struct {
	http.Server
	deps        Deps
	clock       core.Clock
	rateLimiter *rateLimiter
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = core.SystemClock{}
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		deps:        deps,
		clock:       deps.Clock,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/v1/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/v1/auth/login", s.wrap(s.handleLogin))

	mux.HandleFunc("POST /api/v1/finance/transactions", s.wrap(s.requireAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/v1/finance/transactions", s.wrap(s.requireAuth(s.handleListTransactions)))
	mux.HandleFunc("DELETE /api/v1/finance/transactions/{id}", s.wrap(s.requireAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("GET /api/v1/finance/budgets", s.wrap(s.requireAuth(s.handleListBudgets)))
	mux.HandleFunc("POST /api/v1/finance/budgets", s.wrap(s.requireAuth(s.handleSetBudget)))

	mux.HandleFunc("GET /api/v1/finance/debts", s.wrap(s.requireAuth(s.handleListDebts)))
	mux.HandleFunc("POST /api/v1/finance/debts", s.wrap(s.requireAuth(s.handleCreateDebt)))
	mux.HandleFunc("PUT /api/v1/finance/debts/{id}/pay", s.wrap(s.requireAuth(s.handlePayDebt)))
	mux.HandleFunc("DELETE /api/v1/finance/debts/{id}", s.wrap(s.requireAuth(s.handleDeleteDebt)))

	mux.HandleFunc("GET /api/v1/finance/goal", s.wrap(s.requireAuth(s.handleGetGoal)))
	mux.HandleFunc("POST /api/v1/finance/goal", s.wrap(s.requireAuth(s.handleSaveGoal)))
	mux.HandleFunc("PUT /api/v1/finance/goal", s.wrap(s.requireAuth(s.handleUpdateGoal)))

	mux.HandleFunc("POST /api/v1/finance/init", s.wrap(s.requireAuth(s.handleInit)))

	mux.HandleFunc("GET /api/v1/finance/dashboard", s.wrap(s.requireAuth(s.handleDashboard)))

	return s
}

type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeyRequestID contextKey = "request_id"
)

// userID returns the authenticated user from the request context.
func userID(r *http.Request) int64 {
	id, _ := r.Context().Value(contextKeyUserID).(int64)
	return id
}

// requireAuth rejects requests without a valid bearer token and stores the
// user ID in the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			writeError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}
		uid, err := s.deps.Tokens.ParseToken(header[len(prefix):])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyUserID, uid)))
	}
}

// wrap adds security headers, a request ID, rate limiting on mutating
// methods, and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// Shutdown stops the rate limiter's cleanup goroutine along with the
// listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiter.stop()
	return s.Server.Shutdown(ctx)
}

// responseWriter captures the status code for logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter: up to 60 mutating requests per client per
// minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
