package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mehan05/venue-backend-new/internal/config"
	"github.com/mehan05/venue-backend-new/internal/metrics"
	"github.com/mehan05/venue-backend-new/internal/models"
	"github.com/mehan05/venue-backend-new/internal/service"
)

// HTTPServer exposes the venue-booking API.
type HTTPServer struct {
	cfg      config.ServerConfig
	accounts *service.AccountService
	bookings *service.BookingService
	venues   []models.Venue
	server   *http.Server
	limiter  *RateLimiter
	logger   *zerolog.Logger
}

func NewHTTPServer(cfg config.ServerConfig, accounts *service.AccountService, bookings *service.BookingService, venues []models.Venue, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		accounts: accounts,
		bookings: bookings,
		venues:   venues,
		limiter:  NewRateLimiter(cfg.RateLimit),
		logger:   logger,
	}

	mux.HandleFunc("/", srv.handleRoot)
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.HandleFunc("/register", srv.handleRegister)
	mux.HandleFunc("/login", srv.handleLogin)
	mux.HandleFunc("/book", srv.handleBook)
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/export", srv.handleExport)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/venues", srv.handleVenues)

	handler := srv.loggingMiddleware(srv.corsMiddleware(srv.rateLimitMiddleware(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Venue backend is running!"))
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("register")

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, err := s.accounts.Register(r.Context(), body.Username, body.Email, body.Password, body.Role)
	if err != nil {
		if isInvalidRole(err) {
			writeError(w, http.StatusBadRequest, "Invalid role.")
			return
		}
		s.logger.Error().Err(err).Str("email", body.Email).Msg("register failed")
		writeError(w, http.StatusInternalServerError, "Registration failed.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Registration successful!"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("login")

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, err := s.accounts.Login(r.Context(), body.Email, body.Password, body.Role)
	if err != nil {
		switch {
		case isInvalidRole(err):
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid role."})
		case isInvalidCredentials(err):
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials."})
		default:
			s.logger.Error().Err(err).Str("email", body.Email).Msg("login failed")
			writeError(w, http.StatusInternalServerError, "Login failed.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful!"})
}

func (s *HTTPServer) handleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("book")

	var body struct {
		Venue   string `json:"venue"`
		Date    string `json:"date"`
		Time    string `json:"time"`
		Purpose string `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, err := s.bookings.Submit(r.Context(), body.Venue, body.Date, body.Time, body.Purpose)
	if err != nil {
		s.logger.Error().Err(err).Msg("booking submission failed")
		writeError(w, http.StatusInternalServerError, "Booking submission failed.")
		return
	}

	metrics.IncSubmitted()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking submitted successfully!"})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("bookings_list")

	facultyID := strings.TrimSpace(r.URL.Query().Get("facultyId"))
	bookings, err := s.bookings.List(r.Context(), facultyID)
	if err != nil {
		s.logger.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to load bookings.")
		return
	}

	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/bookings/"
	id := strings.TrimPrefix(r.URL.Path, prefix)
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleSetStatus(w, r, id)
	case http.MethodPatch:
		s.handlePatchStatus(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
	Remark string `json:"remark"`
}

// handleSetStatus is the load-then-save entry point: a missing booking is
// a 404.
func (s *HTTPServer) handleSetStatus(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("bookings_set_status")

	var body statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	_, err := s.bookings.SetStatus(r.Context(), id, body.Status, body.Remark)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "Booking not found.")
			return
		}
		s.logger.Error().Err(err).Str("booking_id", id).Msg("status update failed")
		writeError(w, http.StatusInternalServerError, "Failed to update booking status.")
		return
	}

	metrics.IncStatusUpdate(body.Status, "set")
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Booking %s successfully!", strings.ToLower(body.Status)),
	})
}

// handlePatchStatus is the find-and-update entry point: a missing booking
// produces a 200 with a null body, matching the original API contract.
func (s *HTTPServer) handlePatchStatus(w http.ResponseWriter, r *http.Request, id string) {
	metrics.IncHTTP("bookings_patch_status")

	var body statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.PatchStatus(r.Context(), id, body.Status, body.Remark)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id).Msg("status patch failed")
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	if booking != nil {
		metrics.IncStatusUpdate(body.Status, "patch")
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleVenues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	metrics.IncHTTP("venues")

	venues := append([]models.Venue(nil), s.venues...)
	sort.Slice(venues, func(i, j int) bool {
		if venues[i].SortOrder == venues[j].SortOrder {
			return venues[i].Name < venues[j].Name
		}
		return venues[i].SortOrder < venues[j].SortOrder
	})

	writeJSON(w, http.StatusOK, map[string]any{"venues": venues})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) originAllowed(origin string) bool {
	if len(s.cfg.CORS.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.cfg.CORS.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("dur", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"message": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
