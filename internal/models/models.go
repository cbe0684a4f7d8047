package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles stored on the users table.
const (
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// DefaultFeePercent applies when a user record has no explicit
// management-fee percentage.
const DefaultFeePercent = 30.0

type User struct {
	ID           string   `json:"id" db:"id"`
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         string   `json:"role" db:"role"`
	AllowedUnits []string `json:"allowed_units" db:"allowed_units"`
	FeePercent   float64  `json:"management_fee_percentage" db:"management_fee_percentage"`
}

// IsAdmin reports whether the user sees every unit.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanAccess reports whether the user may see data for the given unit.
func (u User) CanAccess(unit string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, allowed := range u.AllowedUnits {
		if allowed == unit {
			return true
		}
	}
	return false
}

type Booking struct {
	ID             string          `json:"id" db:"id"`
	UnitName       string          `json:"unit_name" db:"unit_name"`
	Checkin        time.Time       `json:"checkin" db:"checkin"`
	Checkout       time.Time       `json:"checkout" db:"checkout"`
	Channel        string          `json:"channel" db:"channel"`
	OnOffline      string          `json:"on_offline" db:"on_offline"`
	BookingNumber  string          `json:"booking_number" db:"booking_number"`
	Pax            int32           `json:"pax" db:"pax"`
	Duration       int32           `json:"duration" db:"duration"`
	Price          decimal.Decimal `json:"price" db:"price"`
	CleaningFee    decimal.Decimal `json:"cleaning_fee" db:"cleaning_fee"`
	PlatformCharge decimal.Decimal `json:"platform_charge" db:"platform_charge"`
	Total          decimal.Decimal `json:"total" db:"total"`
}

// Expense is a cost row. An empty UnitName marks a general expense that
// is not attributable to a single unit.
type Expense struct {
	ID          string          `json:"id" db:"id"`
	UnitName    string          `json:"unit_name" db:"unit_name"`
	Date        time.Time       `json:"date" db:"date"`
	Particulars string          `json:"particulars" db:"particulars"`
	Debit       decimal.Decimal `json:"debit" db:"debit"`
}

// IsGeneral reports whether the expense applies across all units.
func (e Expense) IsGeneral() bool {
	return e.UnitName == ""
}

// Summary holds the dashboard headline figures for one display scope.
// Every field is a plain number; aggregation guarantees no NaN leaks out.
type Summary struct {
	TotalBookingRevenue  float64 `json:"total_booking_revenue"`
	TotalMonthlyExpenses float64 `json:"total_monthly_expenses"`
	GrossProfit          float64 `json:"gross_profit"`
	ManagementFee        float64 `json:"management_fee"`
	MonthlyIncome        float64 `json:"monthly_income"`
	TotalOccupancyRate   float64 `json:"total_occupancy_rate"`
}

// Analysis holds the annual-only figures.
type Analysis struct {
	TotalBookingsCount     int     `json:"total_bookings_count"`
	AverageDuration        float64 `json:"average_duration"`
	AverageDailyRate       float64 `json:"average_daily_rate"`
	RevPAR                 float64 `json:"revpar"`
	AverageMonthlyRevenue  float64 `json:"average_monthly_revenue"`
	AverageMonthlyExpenses float64 `json:"average_monthly_expenses"`
}
