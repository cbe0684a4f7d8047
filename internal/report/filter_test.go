package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mspro/rentalbooks/backend/internal/models"
)

func testBooking(unit string, total int64) models.Booking {
	return models.Booking{
		UnitName: unit,
		Checkin:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Checkout: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		Duration: 2,
		Total:    decimal.NewFromInt(total),
	}
}

func testExpense(unit string, debit int64) models.Expense {
	return models.Expense{
		UnitName: unit,
		Date:     time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Debit:    decimal.NewFromInt(debit),
	}
}

var (
	admin = models.User{ID: "admin", Role: models.RoleAdmin}
	owner = models.User{ID: "alice", Role: models.RoleOwner, AllowedUnits: []string{"A"}}

	allBookings = []models.Booking{testBooking("A", 100), testBooking("B", 200)}
	allExpenses = []models.Expense{testExpense("A", 10), testExpense("B", 20), testExpense("", 5)}
)

func TestAdminSeesEverything(t *testing.T) {
	if got := FilterBookings(admin, UnitAll, allBookings); len(got) != 2 {
		t.Errorf("admin bookings = %d, want 2", len(got))
	}
	if got := FilterExpenses(admin, UnitAll, allExpenses); len(got) != 3 {
		t.Errorf("admin expenses = %d, want 3", len(got))
	}
}

func TestOwnerSeesOnlyAllowedUnits(t *testing.T) {
	bookings := FilterBookings(owner, UnitAll, allBookings)
	if len(bookings) != 1 || bookings[0].UnitName != "A" {
		t.Errorf("owner bookings = %v, want only unit A", bookings)
	}
}

func TestOwnerSeesGeneralExpenses(t *testing.T) {
	expenses := FilterExpenses(owner, UnitAll, allExpenses)
	if len(expenses) != 2 {
		t.Fatalf("owner expenses = %d, want 2 (unit A + general)", len(expenses))
	}
	var sawGeneral bool
	for _, e := range expenses {
		if e.UnitName == "B" {
			t.Error("owner saw unit B expense")
		}
		if e.IsGeneral() {
			sawGeneral = true
		}
	}
	if !sawGeneral {
		t.Error("general expense not visible to owner")
	}
}

func TestUnauthorizedUnitYieldsEmptyResult(t *testing.T) {
	// Unit B has real data, but it is outside the owner's allowed set.
	if got := FilterBookings(owner, "B", allBookings); len(got) != 0 {
		t.Errorf("unauthorized unit returned %d bookings, want 0", len(got))
	}
	if got := FilterExpenses(owner, "B", allExpenses); len(got) != 0 {
		t.Errorf("unauthorized unit returned %d expenses, want 0", len(got))
	}
}

func TestSelectedUnitStillIncludesGeneralExpenses(t *testing.T) {
	expenses := FilterExpenses(admin, "A", allExpenses)
	if len(expenses) != 2 {
		t.Fatalf("unit A expenses = %d, want 2 (unit A + general)", len(expenses))
	}
}

func TestSelectedUnitRestrictsBookings(t *testing.T) {
	bookings := FilterBookings(admin, "A", allBookings)
	if len(bookings) != 1 || bookings[0].UnitName != "A" {
		t.Errorf("unit A bookings = %v, want only unit A", bookings)
	}
}

func TestRoomCount(t *testing.T) {
	allUnits := []string{"A", "B", "C"}
	tests := []struct {
		name string
		user models.User
		unit string
		want int
	}{
		{"single unit selected", admin, "A", 1},
		{"admin all units", admin, UnitAll, 3},
		{"owner all units", owner, UnitAll, 1},
		{"owner unauthorized unit", owner, "B", 0},
		{"owner own unit", owner, "A", 1},
	}
	for _, tc := range tests {
		if got := RoomCount(tc.user, tc.unit, allUnits); got != tc.want {
			t.Errorf("%s: RoomCount = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestVisibleUnits(t *testing.T) {
	allUnits := []string{"A", "B", "C"}
	if got := VisibleUnits(admin, allUnits); len(got) != 3 {
		t.Errorf("admin visible units = %v, want all", got)
	}
	got := VisibleUnits(owner, allUnits)
	if len(got) != 1 || got[0] != "A" {
		t.Errorf("owner visible units = %v, want [A]", got)
	}
}
