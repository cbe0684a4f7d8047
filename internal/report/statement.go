package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

// WriteStatementCSV renders the monthly statement for one scope as CSV:
// a summary block followed by the combined detail rows. month may be 0
// for a full-year statement.
func WriteStatementCSV(w io.Writer, year, month int, unit string,
	summary models.Summary, rows []DetailRow) error {

	period := strconv.Itoa(year)
	if month != 0 {
		period = fmt.Sprintf("%s %d", time.Month(month).String(), year)
	}
	if unit == "" {
		unit = UnitAll
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := [][]string{
		{"Monthly Statement", period, "Unit: " + unit},
		{},
		{"Total Booking Revenue", money(summary.TotalBookingRevenue)},
		{"Total Expenses", money(summary.TotalMonthlyExpenses)},
		{"Gross Profit", money(summary.GrossProfit)},
		{"Management Fee", money(summary.ManagementFee)},
		{"Monthly Income", money(summary.MonthlyIncome)},
		{"Occupancy Rate (%)", money(summary.TotalOccupancyRate)},
		{},
		{"type", "date", "unit_name", "checkin", "checkout", "channel",
			"on_offline", "booking_number", "pax", "duration", "price",
			"cleaning_fee", "platform_charge", "total", "particulars", "debit"},
	}
	for _, rec := range header {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write statement header: %w", err)
		}
	}

	for _, r := range rows {
		// Expense lines have no guests or stay length; a literal 0
		// there would read as a zero-guest booking.
		pax, duration := "-", "-"
		if r.Type == "booking" {
			pax = strconv.Itoa(int(r.Pax))
			duration = strconv.Itoa(int(r.Duration))
		}
		rec := []string{
			r.Type, r.Date, r.UnitName, r.Checkin, r.Checkout, r.Channel,
			r.OnOffline, r.BookingNumber, pax, duration,
			money(r.Price), money(r.CleaningFee), money(r.PlatformCharge),
			money(r.TotalBookingRevenue), r.ExpenseCategory, money(r.ExpenseAmount),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write statement row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
