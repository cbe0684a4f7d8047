package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

// The standard range for a 32-bit signed integer. Values outside it get
// the whole row dropped so the database never sees a corrupted count.
const (
	int32Min = math.MinInt32
	int32Max = math.MaxInt32
)

// Rejection records a dropped row with enough detail to find the
// offending spreadsheet cell.
type Rejection struct {
	File   string
	Line   int
	Unit   string
	Field  string
	Value  string
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s row %d (unit %q): %s %q %s", r.File, r.Line, r.Unit, r.Field, r.Value, r.Reason)
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
	"02-Jan-06",
	"January 2, 2006",
	"1/2/06 15:04",
	"1/2/06",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Date-typed cells arrive from the raw workbook read as Excel
	// serial numbers.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var nonNumericRe = regexp.MustCompile(`[^\d,\.\-]`)

// parseAmount is a best-effort numeric coercion handling currency
// symbols, thousand separators and decimal commas.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "nan") {
		return decimal.Zero, false
	}

	clean := nonNumericRe.ReplaceAllString(s, "")
	if comma := strings.LastIndex(clean, ","); comma >= 0 {
		// A comma alongside a dot, or a comma followed by a group of
		// exactly 3 digits, separates thousands. Anything else is a
		// decimal comma.
		if strings.Contains(clean, ".") || len(clean)-comma-1 == 3 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// amountOrZero fills a missing or unparseable numeric with 0 so sums
// are never corrupted by nulls.
func amountOrZero(s string) decimal.Decimal {
	d, ok := parseAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// intField coerces an integer-typed cell. outOfRange is set when the
// value parsed but falls outside the signed 32-bit range.
func intField(s string) (val int32, outOfRange bool) {
	d, ok := parseAmount(s)
	if !ok {
		return 0, false
	}
	f, _ := d.Float64()
	if f < int32Min || f > int32Max {
		return 0, true
	}
	return int32(d.IntPart()), false
}

// CleanBookings validates and coerces a normalized booking dataset.
// Rows missing a parsable checkin or checkout, rows with checkin after
// checkout, and rows with out-of-range integer fields are dropped and
// reported.
func CleanBookings(ds Dataset) ([]models.Booking, []Rejection) {
	var bookings []models.Booking
	var rejections []Rejection

	for _, r := range ds.Rows {
		unit := r.Cells["unit_name"]

		checkin, okIn := parseDate(r.Cells["checkin"])
		checkout, okOut := parseDate(r.Cells["checkout"])
		if !okIn || !okOut {
			field, value := "checkin", r.Cells["checkin"]
			if okIn {
				field, value = "checkout", r.Cells["checkout"]
			}
			rejections = append(rejections, Rejection{
				File: r.File, Line: r.Line, Unit: unit,
				Field: field, Value: value, Reason: "is not a valid date",
			})
			continue
		}
		if checkin.After(checkout) {
			rejections = append(rejections, Rejection{
				File: r.File, Line: r.Line, Unit: unit,
				Field: "checkin", Value: r.Cells["checkin"],
				Reason: "is after checkout",
			})
			continue
		}

		pax, paxBad := intField(r.Cells["pax"])
		duration, durBad := intField(r.Cells["duration"])
		if paxBad || durBad {
			field, value := "pax", r.Cells["pax"]
			if durBad {
				field, value = "duration", r.Cells["duration"]
			}
			rejections = append(rejections, Rejection{
				File: r.File, Line: r.Line, Unit: unit,
				Field: field, Value: value,
				Reason: "is outside the 32-bit integer range",
			})
			continue
		}

		bookings = append(bookings, models.Booking{
			ID:             uuid.NewString(),
			UnitName:       unit,
			Checkin:        checkin,
			Checkout:       checkout,
			Channel:        r.Cells["channel"],
			OnOffline:      r.Cells["on_offline"],
			BookingNumber:  r.Cells["booking_number"],
			Pax:            pax,
			Duration:       duration,
			Price:          amountOrZero(r.Cells["price"]),
			CleaningFee:    amountOrZero(r.Cells["cleaning_fee"]),
			PlatformCharge: amountOrZero(r.Cells["platform_charge"]),
			Total:          amountOrZero(r.Cells["total"]),
		})
	}
	return bookings, rejections
}

// CleanExpenses validates and coerces a normalized expense dataset.
// Rows without a parsable date, or with a populated but unparseable
// debit, are dropped. An empty debit cell becomes 0.
func CleanExpenses(ds Dataset) ([]models.Expense, []Rejection) {
	var expenses []models.Expense
	var rejections []Rejection

	for _, r := range ds.Rows {
		unit := r.Cells["unit_name"]

		date, ok := parseDate(r.Cells["date"])
		if !ok {
			rejections = append(rejections, Rejection{
				File: r.File, Line: r.Line, Unit: unit,
				Field: "date", Value: r.Cells["date"], Reason: "is not a valid date",
			})
			continue
		}

		debit := decimal.Zero
		if raw := r.Cells["debit"]; raw != "" {
			var parsed bool
			if debit, parsed = parseAmount(raw); !parsed {
				rejections = append(rejections, Rejection{
					File: r.File, Line: r.Line, Unit: unit,
					Field: "debit", Value: raw, Reason: "is not a valid amount",
				})
				continue
			}
		}

		expenses = append(expenses, models.Expense{
			ID:          uuid.NewString(),
			UnitName:    unit,
			Date:        date,
			Particulars: r.Cells["particulars"],
			Debit:       debit,
		})
	}
	return expenses, rejections
}
