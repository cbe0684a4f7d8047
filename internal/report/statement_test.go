package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

func TestBuildDetailRowsMergesAndSorts(t *testing.T) {
	bookings := []models.Booking{
		{
			UnitName: "A",
			Checkin:  time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC),
			Checkout: time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC),
			Duration: 2,
			Total:    decimal.NewFromInt(520),
		},
	}
	expenses := []models.Expense{
		{
			ID:          "e1",
			Date:        time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
			Particulars: "insurance",
			Debit:       decimal.NewFromInt(120),
		},
	}

	rows := BuildDetailRows(bookings, expenses)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Type != "expense" || rows[1].Type != "booking" {
		t.Errorf("rows not sorted by date: %s, %s", rows[0].Type, rows[1].Type)
	}
	if rows[0].UnitName != GeneralExpenseLabel {
		t.Errorf("general expense unit = %q, want %q", rows[0].UnitName, GeneralExpenseLabel)
	}
	if rows[1].TotalBookingRevenue != 520 {
		t.Errorf("booking total = %v, want 520", rows[1].TotalBookingRevenue)
	}
}

func TestWriteStatementCSV(t *testing.T) {
	summary := models.Summary{
		TotalBookingRevenue:  1500,
		TotalMonthlyExpenses: 300,
		GrossProfit:          1200,
		ManagementFee:        360,
		MonthlyIncome:        840,
		TotalOccupancyRate:   10,
	}
	rows := []DetailRow{
		{
			Type: "booking", Date: "2024-05-01", UnitName: "A",
			Checkin: "2024-05-01", Checkout: "2024-05-03",
			Pax: 2, Duration: 2, TotalBookingRevenue: 520,
		},
		{
			Type: "expense", Date: "2024-05-12", UnitName: "A",
			ExpenseCategory: "repairs", ExpenseAmount: 80,
		},
	}

	var buf bytes.Buffer
	if err := WriteStatementCSV(&buf, 2024, 5, "A", summary, rows); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "May 2024") {
		t.Error("statement is missing the period header")
	}
	if !strings.Contains(out, "Management Fee,360.00") {
		t.Errorf("statement is missing the fee line:\n%s", out)
	}

	reader := csv.NewReader(strings.NewReader(out))
	reader.FieldsPerRecord = -1 // the summary block and detail rows differ in width
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("statement is not valid CSV: %v", err)
	}
	booking := records[len(records)-2]
	if booking[0] != "booking" || booking[1] != "2024-05-01" {
		t.Errorf("booking row not written: %v", booking)
	}
	if booking[8] != "2" || booking[9] != "2" {
		t.Errorf("booking pax/duration = %q/%q, want 2/2", booking[8], booking[9])
	}

	expense := records[len(records)-1]
	if expense[0] != "expense" {
		t.Fatalf("expense row not written: %v", expense)
	}
	if expense[8] != "-" || expense[9] != "-" {
		t.Errorf("expense pax/duration = %q/%q, want placeholders", expense[8], expense[9])
	}
}
