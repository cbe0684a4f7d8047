package importer

import "strings"

// Dataset is an in-memory table read from one or more source files.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Row keeps its source coordinates so a dropped row can be traced back
// to the spreadsheet cell that caused it.
type Row struct {
	File  string
	Line  int // 1-based sheet row number, header row is 1
	Cells map[string]string
}

// FieldSpec maps source column spellings onto one canonical field.
// Sources are in priority order: when several spellings are populated in
// the same file, cells are coalesced column by column and the first
// non-missing value wins.
type FieldSpec struct {
	Canonical string
	Sources   []string
}

// BookingFields is the canonical booking schema. The spellings cover
// every known revision of the source workbooks, including the
// "Patform Charge" typo some of them carry.
var BookingFields = []FieldSpec{
	{Canonical: "unit_name", Sources: []string{"Unit Name"}},
	{Canonical: "checkin", Sources: []string{"CHECKIN", "Checkin"}},
	{Canonical: "checkout", Sources: []string{"CHECKOUT", "Checkout"}},
	{Canonical: "channel", Sources: []string{"Channel"}},
	{Canonical: "on_offline", Sources: []string{"ON/OFFLINE"}},
	{Canonical: "booking_number", Sources: []string{"Booking Number"}},
	{Canonical: "pax", Sources: []string{"Pax"}},
	{Canonical: "duration", Sources: []string{"Duration"}},
	{Canonical: "price", Sources: []string{"Price"}},
	{Canonical: "cleaning_fee", Sources: []string{"CLEANING FEE"}},
	{Canonical: "platform_charge", Sources: []string{"Platform Charge", "Patform Charge"}},
	{Canonical: "total", Sources: []string{"TOTAL"}},
}

// ExpenseFields is the canonical expense schema.
var ExpenseFields = []FieldSpec{
	{Canonical: "date", Sources: []string{"Date", "Expenses Date"}},
	{Canonical: "unit_name", Sources: []string{"Unit Name"}},
	{Canonical: "particulars", Sources: []string{"PARTICULARS"}},
	{Canonical: "debit", Sources: []string{"DEBIT", "Amount"}},
}

// Normalize concatenates raw datasets into a single one with exactly the
// canonical columns. Unrecognized source columns are dropped; canonical
// columns absent from a source stay missing and are defaulted by the
// cleaner.
func Normalize(fields []FieldSpec, datasets ...Dataset) Dataset {
	out := Dataset{Columns: make([]string, 0, len(fields))}
	for _, f := range fields {
		out.Columns = append(out.Columns, f.Canonical)
	}

	for _, ds := range datasets {
		for _, r := range ds.Rows {
			cells := make(map[string]string, len(fields))
			for _, f := range fields {
				for _, src := range f.Sources {
					if v, ok := r.Cells[src]; ok {
						if v = strings.TrimSpace(v); v != "" {
							cells[f.Canonical] = v
							break
						}
					}
				}
			}
			out.Rows = append(out.Rows, Row{File: r.File, Line: r.Line, Cells: cells})
		}
	}
	return out
}
