package report

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// DaysInPeriod returns the number of days in the selected month, or 365
// for a full-year scope (month == 0).
func DaysInPeriod(year, month int) int {
	if month == 0 {
		return 365
	}
	// day 0 of the following month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Summarize computes the headline figures for one display scope. The
// inputs are already access- and time-filtered. feePercent is the
// requesting user's management-fee percentage. A zero denominator for
// the occupancy rate yields 0, never NaN.
func Summarize(bookings []models.Booking, expenses []models.Expense,
	feePercent float64, roomCount, daysInPeriod int) models.Summary {

	revenue := decimal.Zero
	var nights int64
	for _, b := range bookings {
		revenue = revenue.Add(b.Total)
		nights += int64(b.Duration)
	}

	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Debit)
	}

	gross := revenue.Sub(spent)
	fee := gross.Mul(decimal.NewFromFloat(feePercent)).Div(oneHundred)
	income := gross.Sub(fee)

	var occupancy float64
	if possibleNights := roomCount * daysInPeriod; possibleNights > 0 {
		occupancy = float64(nights) / float64(possibleNights) * 100
	}

	return models.Summary{
		TotalBookingRevenue:  noNaN(revenue.InexactFloat64()),
		TotalMonthlyExpenses: noNaN(spent.InexactFloat64()),
		GrossProfit:          noNaN(gross.InexactFloat64()),
		ManagementFee:        noNaN(fee.InexactFloat64()),
		MonthlyIncome:        noNaN(income.InexactFloat64()),
		TotalOccupancyRate:   noNaN(occupancy),
	}
}

// Analyze computes the annual-only figures over a full-year subset.
func Analyze(bookings []models.Booking, expenses []models.Expense, roomCount int) models.Analysis {
	revenue := decimal.Zero
	var nights int64
	for _, b := range bookings {
		revenue = revenue.Add(b.Total)
		nights += int64(b.Duration)
	}

	spent := decimal.Zero
	for _, e := range expenses {
		spent = spent.Add(e.Debit)
	}

	revF := revenue.InexactFloat64()
	a := models.Analysis{TotalBookingsCount: len(bookings)}
	if len(bookings) > 0 {
		a.AverageDuration = noNaN(float64(nights) / float64(len(bookings)))
	}
	if nights > 0 {
		a.AverageDailyRate = noNaN(revF / float64(nights))
	}
	if roomCount > 0 {
		a.RevPAR = noNaN(revF / (float64(roomCount) * 365))
	}
	a.AverageMonthlyRevenue = noNaN(revF / 12)
	a.AverageMonthlyExpenses = noNaN(spent.InexactFloat64() / 12)
	return a
}

// noNaN maps NaN and infinities to 0 so presentation never sees them.
func noNaN(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
