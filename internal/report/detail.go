package report

import (
	"sort"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

const dateLayout = "2006-01-02"

// GeneralExpenseLabel is how a cross-unit expense shows up in detail
// rows and statements.
const GeneralExpenseLabel = "_GENERAL_EXPENSE_"

// DetailRow is one line of the combined booking/expense detail table.
// Booking rows leave the expense fields zeroed and vice versa.
type DetailRow struct {
	Type                string  `json:"type"`
	Date                string  `json:"date"`
	UnitName            string  `json:"unit_name"`
	Checkin             string  `json:"checkin"`
	Checkout            string  `json:"checkout"`
	Channel             string  `json:"channel"`
	OnOffline           string  `json:"on_offline"`
	BookingNumber       string  `json:"booking_number"`
	Pax                 int32   `json:"pax"`
	Duration            int32   `json:"duration"`
	Price               float64 `json:"price"`
	CleaningFee         float64 `json:"cleaning_fee"`
	PlatformCharge      float64 `json:"platform_charge"`
	TotalBookingRevenue float64 `json:"total_booking_revenue"`
	ExpenseID           string  `json:"expense_id,omitempty"`
	ExpenseCategory     string  `json:"additional_expense_category,omitempty"`
	ExpenseAmount       float64 `json:"additional_expense_amount"`
}

// BuildDetailRows merges filtered bookings and expenses into one table
// sorted by date.
func BuildDetailRows(bookings []models.Booking, expenses []models.Expense) []DetailRow {
	rows := make([]DetailRow, 0, len(bookings)+len(expenses))

	for _, b := range bookings {
		rows = append(rows, DetailRow{
			Type:                "booking",
			Date:                b.Checkin.Format(dateLayout),
			UnitName:            b.UnitName,
			Checkin:             b.Checkin.Format(dateLayout),
			Checkout:            b.Checkout.Format(dateLayout),
			Channel:             b.Channel,
			OnOffline:           b.OnOffline,
			BookingNumber:       b.BookingNumber,
			Pax:                 b.Pax,
			Duration:            b.Duration,
			Price:               noNaN(b.Price.InexactFloat64()),
			CleaningFee:         noNaN(b.CleaningFee.InexactFloat64()),
			PlatformCharge:      noNaN(b.PlatformCharge.InexactFloat64()),
			TotalBookingRevenue: noNaN(b.Total.InexactFloat64()),
		})
	}

	for _, e := range expenses {
		unit := e.UnitName
		if e.IsGeneral() {
			unit = GeneralExpenseLabel
		}
		rows = append(rows, DetailRow{
			Type:            "expense",
			Date:            e.Date.Format(dateLayout),
			UnitName:        unit,
			ExpenseID:       e.ID,
			ExpenseCategory: e.Particulars,
			ExpenseAmount:   noNaN(e.Debit.InexactFloat64()),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}
