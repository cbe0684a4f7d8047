package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mspro/rentalbooks/backend/internal/api"
	"github.com/mspro/rentalbooks/backend/internal/auth"
	"github.com/mspro/rentalbooks/backend/internal/config"
	"github.com/mspro/rentalbooks/backend/internal/db"
	"github.com/mspro/rentalbooks/backend/internal/logutil"
	"github.com/mspro/rentalbooks/backend/internal/models"
	"github.com/mspro/rentalbooks/backend/internal/report"
)

type server struct {
	store db.Store
	auth  *auth.Manager
	log   *logutil.Logger
}

func main() {
	cfg := config.Load()
	logger := logutil.NewLogger()

	store, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	s := &server{
		store: store,
		auth:  auth.NewManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute),
		log:   logger,
	}

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/api/login", s.handleLogin)

	// Protected routes
	mux.HandleFunc("/api/register", s.protected(s.handleRegister))
	mux.HandleFunc("/api/users/access", s.protected(s.handleUpdateAccess))
	mux.HandleFunc("/api/users/password", s.protected(s.handleChangePassword))
	mux.HandleFunc("/api/filter_data", s.protected(s.handleFilterData))
	mux.HandleFunc("/api/chart_data", s.protected(s.handleChartData))
	mux.HandleFunc("/api/detailed_data", s.protected(s.handleDetailedData))
	mux.HandleFunc("/api/options", s.protected(s.handleOptions))
	mux.HandleFunc("/api/statement.csv", s.protected(s.handleStatement))

	logger.Info("Server starting on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, api.CORSMiddleware(mux)); err != nil {
		logger.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

func (s *server) protected(next http.HandlerFunc) http.HandlerFunc {
	return api.AuthMiddleware(s.auth, next)
}

func (s *server) currentUser(r *http.Request) (models.User, error) {
	return s.store.GetUser(r.Header.Get(api.UserIDHeader))
}

// requestScope parses the common dashboard query parameters. month 0
// means the full year; the unit defaults to the "All" sentinel.
func requestScope(r *http.Request) (year, month int, unit string) {
	year = time.Now().Year()
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil {
		year = y
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	unit = r.URL.Query().Get("room_type")
	if unit == "" {
		unit = report.UnitAll
	}
	return year, month, unit
}

// visibleData loads and access-filters one period for the user.
func (s *server) visibleData(u models.User, year, month int, unit string) ([]models.Booking, []models.Expense, error) {
	bookings, err := s.store.BookingsInPeriod(year, month)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := s.store.ExpensesInPeriod(year, month)
	if err != nil {
		return nil, nil, err
	}
	return report.FilterBookings(u, unit, bookings), report.FilterExpenses(u, unit, expenses), nil
}

func (s *server) roomCount(u models.User, unit string) (int, error) {
	units, err := s.store.DistinctUnits()
	if err != nil {
		return 0, err
	}
	return report.RoomCount(u, unit, units), nil
}

// --- AUTH & ACCOUNT HANDLERS ---

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	user, err := s.store.GetUser(req.Username)
	if err != nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		api.JSONError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.auth.GenerateToken(user.ID)
	if err != nil {
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.JSONResponse(w, http.StatusOK, map[string]string{"token": token, "role": user.Role})
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, err := s.currentUser(r)
	if err != nil || !actor.IsAdmin() {
		api.JSONError(w, http.StatusForbidden, "admin only")
		return
	}

	var req struct {
		Username     string   `json:"username"`
		Password     string   `json:"password"`
		Role         string   `json:"role"`
		AllowedUnits []string `json:"allowed_units"`
		FeePercent   *float64 `json:"management_fee_percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		api.JSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleOwner
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleOwner {
		api.JSONError(w, http.StatusBadRequest, "unknown role")
		return
	}

	fee := float64(models.DefaultFeePercent)
	if req.FeePercent != nil {
		fee = clampFee(*req.FeePercent)
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	user := models.User{
		ID:           req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		AllowedUnits: req.AllowedUnits,
		FeePercent:   fee,
	}
	if err := s.store.CreateUser(user); err != nil {
		api.JSONError(w, http.StatusConflict, err.Error())
		return
	}
	api.JSONResponse(w, http.StatusCreated, map[string]string{"message": "user registered"})
}

func (s *server) handleUpdateAccess(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, err := s.currentUser(r)
	if err != nil || !actor.IsAdmin() {
		api.JSONError(w, http.StatusForbidden, "admin only")
		return
	}

	var req struct {
		Username     string   `json:"username"`
		AllowedUnits []string `json:"allowed_units"`
		FeePercent   float64  `json:"management_fee_percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		api.JSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	if err := s.store.UpdateUserAccess(req.Username, req.AllowedUnits, clampFee(req.FeePercent)); err != nil {
		api.JSONError(w, http.StatusNotFound, "user not found")
		return
	}
	api.JSONResponse(w, http.StatusOK, map[string]string{"message": "access updated"})
}

func (s *server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	actor, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		api.JSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Username == "" {
		req.Username = actor.ID
	}
	if req.Username != actor.ID && !actor.IsAdmin() {
		api.JSONError(w, http.StatusForbidden, "admin only")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := s.store.UpdateUserPassword(req.Username, hash); err != nil {
		api.JSONError(w, http.StatusNotFound, "user not found")
		return
	}
	api.JSONResponse(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func clampFee(fee float64) float64 {
	if fee < 0 {
		return 0
	}
	if fee > 100 {
		return 100
	}
	return fee
}

// --- DASHBOARD HANDLERS ---

func (s *server) handleFilterData(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	year, month, unit := requestScope(r)

	bookings, expenses, err := s.visibleData(user, year, month, unit)
	if err != nil {
		s.log.Error("filter_data query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	roomCount, err := s.roomCount(user, unit)
	if err != nil {
		s.log.Error("filter_data query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	summary := report.Summarize(bookings, expenses, user.FeePercent,
		roomCount, report.DaysInPeriod(year, month))

	resp := map[string]interface{}{"summary": summary}
	if month == 0 {
		// annual scope equals the display scope here
		resp["analysis"] = report.Analyze(bookings, expenses, roomCount)
	}
	api.JSONResponse(w, http.StatusOK, resp)
}

func (s *server) handleChartData(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	year, _, unit := requestScope(r)

	months := make([]string, 0, 12)
	revenue := make([]float64, 0, 12)
	spent := make([]float64, 0, 12)

	for m := 1; m <= 12; m++ {
		bookings, expenses, err := s.visibleData(user, year, m, unit)
		if err != nil {
			s.log.Error("chart_data query failed: %v", err)
			api.JSONError(w, http.StatusInternalServerError, "internal error")
			return
		}

		rev, exp := decimal.Zero, decimal.Zero
		for _, b := range bookings {
			rev = rev.Add(b.Total)
		}
		for _, e := range expenses {
			exp = exp.Add(e.Debit)
		}

		months = append(months, time.Month(m).String())
		revenue = append(revenue, rev.InexactFloat64())
		spent = append(spent, exp.InexactFloat64())
	}

	api.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"months":           months,
		"monthly_revenue":  revenue,
		"monthly_expenses": spent,
	})
}

func (s *server) handleDetailedData(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	year, month, unit := requestScope(r)

	bookings, expenses, err := s.visibleData(user, year, month, unit)
	if err != nil {
		s.log.Error("detailed_data query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	api.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"data": report.BuildDetailRows(bookings, expenses),
	})
}

func (s *server) handleOptions(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}

	years, err := s.store.BookingYears()
	if err != nil {
		s.log.Error("options query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if len(years) == 0 {
		years = []int{time.Now().Year()}
	}
	units, err := s.store.DistinctUnits()
	if err != nil {
		s.log.Error("options query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	roomTypes := append([]string{report.UnitAll}, report.VisibleUnits(user, units)...)
	api.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"years":      years,
		"room_types": roomTypes,
	})
}

func (s *server) handleStatement(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		api.JSONError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	year, month, unit := requestScope(r)
	if month == 0 {
		month = int(time.Now().Month())
	}

	bookings, expenses, err := s.visibleData(user, year, month, unit)
	if err != nil {
		s.log.Error("statement query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}
	roomCount, err := s.roomCount(user, unit)
	if err != nil {
		s.log.Error("statement query failed: %v", err)
		api.JSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	summary := report.Summarize(bookings, expenses, user.FeePercent,
		roomCount, report.DaysInPeriod(year, month))
	rows := report.BuildDetailRows(bookings, expenses)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=monthly_statement_%d_%d.csv", year, month))
	if err := report.WriteStatementCSV(w, year, month, unit, summary, rows); err != nil {
		s.log.Error("statement write failed: %v", err)
	}
}
