package report

import "github.com/mspro/rentalbooks/backend/internal/models"

// UnitAll is the query sentinel meaning "no unit constraint".
const UnitAll = "All"

func unitSelected(unit string) bool {
	return unit != "" && unit != UnitAll
}

// FilterBookings returns the booking rows visible to the user within the
// requested unit scope. Requesting a unit outside an owner's allowed set
// yields an empty result, never a widened one.
func FilterBookings(u models.User, unit string, bookings []models.Booking) []models.Booking {
	if unitSelected(unit) && !u.CanAccess(unit) {
		return nil
	}

	var visible []models.Booking
	for _, b := range bookings {
		if unitSelected(unit) {
			if b.UnitName == unit {
				visible = append(visible, b)
			}
			continue
		}
		if u.CanAccess(b.UnitName) {
			visible = append(visible, b)
		}
	}
	return visible
}

// FilterExpenses returns the expense rows visible to the user. General
// expenses (no unit) are visible to every user, including when a single
// unit is selected.
func FilterExpenses(u models.User, unit string, expenses []models.Expense) []models.Expense {
	if unitSelected(unit) && !u.CanAccess(unit) {
		return nil
	}

	var visible []models.Expense
	for _, e := range expenses {
		if e.IsGeneral() {
			visible = append(visible, e)
			continue
		}
		if unitSelected(unit) {
			if e.UnitName == unit {
				visible = append(visible, e)
			}
			continue
		}
		if u.CanAccess(e.UnitName) {
			visible = append(visible, e)
		}
	}
	return visible
}

// RoomCount determines the room denominator for occupancy and RevPAR:
// 1 when a single visible unit is selected, otherwise the number of
// units the user can see. allUnits is the distinct unit list from the
// store and only consulted for admins.
func RoomCount(u models.User, unit string, allUnits []string) int {
	if unitSelected(unit) {
		if !u.CanAccess(unit) {
			return 0
		}
		return 1
	}
	if !u.IsAdmin() {
		return len(u.AllowedUnits)
	}
	return len(allUnits)
}

// VisibleUnits narrows the distinct unit list to what the user may see,
// for the dashboard filter options.
func VisibleUnits(u models.User, allUnits []string) []string {
	if u.IsAdmin() {
		return allUnits
	}
	var visible []string
	for _, unit := range allUnits {
		if u.CanAccess(unit) {
			visible = append(visible, unit)
		}
	}
	return visible
}
