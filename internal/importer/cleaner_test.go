package importer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func bookingRow(t *testing.T, overrides map[string]string) Dataset {
	t.Helper()
	cells := map[string]string{
		"unit_name": "A1",
		"checkin":   "2024-05-01",
		"checkout":  "2024-05-03",
		"pax":       "2",
		"duration":  "2",
		"price":     "500",
		"total":     "520",
	}
	for k, v := range overrides {
		if v == "" {
			delete(cells, k)
		} else {
			cells[k] = v
		}
	}
	return Dataset{Rows: []Row{{File: "May Booking.xlsx", Line: 2, Cells: cells}}}
}

func TestCleanBookingsValidRow(t *testing.T) {
	bookings, rejections := CleanBookings(bookingRow(t, nil))
	if len(rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", rejections)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}

	b := bookings[0]
	if b.ID == "" {
		t.Error("booking did not get an ID")
	}
	if b.Pax != 2 || b.Duration != 2 {
		t.Errorf("pax/duration = %d/%d, want 2/2", b.Pax, b.Duration)
	}
	if !b.Total.Equal(decimal.NewFromInt(520)) {
		t.Errorf("total = %s, want 520", b.Total)
	}
	if b.Checkin.After(b.Checkout) {
		t.Error("checkin after checkout in cleaned row")
	}
}

func TestCleanBookingsDropsMissingDates(t *testing.T) {
	for _, field := range []string{"checkin", "checkout"} {
		bookings, rejections := CleanBookings(bookingRow(t, map[string]string{field: ""}))
		if len(bookings) != 0 {
			t.Errorf("row missing %s survived cleaning", field)
		}
		if len(rejections) != 1 {
			t.Errorf("row missing %s produced %d rejections, want 1", field, len(rejections))
		}
	}
}

func TestCleanBookingsDropsUnparseableDate(t *testing.T) {
	bookings, rejections := CleanBookings(bookingRow(t, map[string]string{"checkin": "not a date"}))
	if len(bookings) != 0 || len(rejections) != 1 {
		t.Fatalf("got %d bookings, %d rejections", len(bookings), len(rejections))
	}
	if rejections[0].Field != "checkin" || rejections[0].Value != "not a date" {
		t.Errorf("rejection = %+v, want checkin/\"not a date\"", rejections[0])
	}
}

func TestCleanBookingsDropsCheckinAfterCheckout(t *testing.T) {
	bookings, rejections := CleanBookings(bookingRow(t, map[string]string{
		"checkin": "2024-05-10", "checkout": "2024-05-03",
	}))
	if len(bookings) != 0 {
		t.Error("inverted date range survived cleaning")
	}
	if len(rejections) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejections))
	}
}

func TestCleanBookingsDropsOutOfRangeInteger(t *testing.T) {
	bookings, rejections := CleanBookings(bookingRow(t, map[string]string{"pax": "3000000000"}))
	if len(bookings) != 0 {
		t.Error("out-of-range pax was not dropped")
	}
	if len(rejections) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(rejections))
	}

	r := rejections[0]
	if r.Field != "pax" || r.Value != "3000000000" {
		t.Errorf("rejection field/value = %s/%s", r.Field, r.Value)
	}
	if r.File != "May Booking.xlsx" || r.Line != 2 || r.Unit != "A1" {
		t.Errorf("rejection lost source coordinates: %+v", r)
	}
}

func TestCleanBookingsFillsMissingNumericsWithZero(t *testing.T) {
	bookings, _ := CleanBookings(bookingRow(t, map[string]string{
		"pax": "", "price": "", "total": "n/a",
	}))
	if len(bookings) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(bookings))
	}
	b := bookings[0]
	if b.Pax != 0 {
		t.Errorf("missing pax = %d, want 0", b.Pax)
	}
	if !b.Price.IsZero() || !b.Total.IsZero() {
		t.Errorf("missing numerics not zero-filled: price=%s total=%s", b.Price, b.Total)
	}
}

func TestCleanBookingsParsesFormattedAmounts(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1,250.75", "1250.75"},
		{"1,250", "1250"}, // thousands separator, not a decimal comma
		{"1,250,000", "1250000"},
		{"$2,000", "2000"},
		{"12,50", "12.50"},
	}
	for _, tc := range cases {
		bookings, _ := CleanBookings(bookingRow(t, map[string]string{"total": tc.raw}))
		if len(bookings) != 1 {
			t.Fatalf("%q: formatted amount row dropped", tc.raw)
		}
		want := decimal.RequireFromString(tc.want)
		if !bookings[0].Total.Equal(want) {
			t.Errorf("total %q = %s, want %s", tc.raw, bookings[0].Total, want)
		}
	}
}

func TestCleanBookingsAcceptsExcelSerialDates(t *testing.T) {
	// Date-typed cells survive the raw workbook read as serial numbers:
	// 45413 is 2024-05-01 and 45415 is 2024-05-03.
	bookings, rejections := CleanBookings(bookingRow(t, map[string]string{
		"checkin": "45413", "checkout": "45415",
	}))
	if len(rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", rejections)
	}
	if len(bookings) != 1 {
		t.Fatal("serial-dated row dropped")
	}
	b := bookings[0]
	if got := b.Checkin.Format("2006-01-02"); got != "2024-05-01" {
		t.Errorf("checkin = %s, want 2024-05-01", got)
	}
	if got := b.Checkout.Format("2006-01-02"); got != "2024-05-03" {
		t.Errorf("checkout = %s, want 2024-05-03", got)
	}
}

func expenseRow(overrides map[string]string) Dataset {
	cells := map[string]string{
		"date":        "2024-05-10",
		"unit_name":   "A1",
		"particulars": "cleaning supplies",
		"debit":       "45.20",
	}
	for k, v := range overrides {
		if v == "" {
			delete(cells, k)
		} else {
			cells[k] = v
		}
	}
	return Dataset{Rows: []Row{{File: "May expenses.xlsx", Line: 3, Cells: cells}}}
}

func TestCleanExpensesValidRow(t *testing.T) {
	expenses, rejections := CleanExpenses(expenseRow(nil))
	if len(rejections) != 0 || len(expenses) != 1 {
		t.Fatalf("got %d expenses, %d rejections", len(expenses), len(rejections))
	}
	if !expenses[0].Debit.Equal(decimal.RequireFromString("45.20")) {
		t.Errorf("debit = %s, want 45.20", expenses[0].Debit)
	}
}

func TestCleanExpensesDropsMissingDate(t *testing.T) {
	expenses, rejections := CleanExpenses(expenseRow(map[string]string{"date": ""}))
	if len(expenses) != 0 || len(rejections) != 1 {
		t.Fatalf("got %d expenses, %d rejections", len(expenses), len(rejections))
	}
}

func TestCleanExpensesDropsUnparseableDebit(t *testing.T) {
	expenses, rejections := CleanExpenses(expenseRow(map[string]string{"debit": "abc"}))
	if len(expenses) != 0 || len(rejections) != 1 {
		t.Fatalf("got %d expenses, %d rejections", len(expenses), len(rejections))
	}
}

func TestCleanExpensesEmptyDebitBecomesZero(t *testing.T) {
	expenses, rejections := CleanExpenses(expenseRow(map[string]string{"debit": ""}))
	if len(rejections) != 0 || len(expenses) != 1 {
		t.Fatalf("got %d expenses, %d rejections", len(expenses), len(rejections))
	}
	if !expenses[0].Debit.IsZero() {
		t.Errorf("empty debit = %s, want 0", expenses[0].Debit)
	}
}

func TestCleanExpensesGeneralExpenseKeepsEmptyUnit(t *testing.T) {
	expenses, _ := CleanExpenses(expenseRow(map[string]string{"unit_name": ""}))
	if len(expenses) != 1 {
		t.Fatal("general expense dropped")
	}
	if !expenses[0].IsGeneral() {
		t.Error("expense without unit not marked general")
	}
}
