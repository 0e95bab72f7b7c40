package seeder

import (
	"testing"
	"time"
)

func testSheet(t *testing.T) *Sheet {
	t.Helper()
	wb := NewWorkbookFromRows(map[string][][]string{
		"Drivers": {
			{" Driver ID ", "First Name", "Cash Paid", "License Expiry", "Is Active", "Notes"},
			{"5001234", "Maria", "$1,250.75", "2026-03-15", "Y", ""},
			{"42.0", "", "nan", "45200", "0", "NaN"},
			{"", "", "", "", "", ""},
		},
	})
	sheet, ok := wb.Sheet("drivers")
	if !ok {
		t.Fatalf("sheet lookup should be case-insensitive")
	}
	return sheet
}

func TestSheetNormalizesHeadersAndDropsEmptyRows(t *testing.T) {
	sheet := testSheet(t)
	if !sheet.HasColumn("driver id") {
		t.Fatalf("expected normalized header")
	}
	if got := len(sheet.Rows()); got != 2 {
		t.Fatalf("expected blank row dropped, got %d rows", got)
	}
}

func TestRowTypedAccessors(t *testing.T) {
	rows := testSheet(t).Rows()
	first, second := rows[0], rows[1]

	if v, ok := first.TrimString("Driver ID"); !ok || v != "5001234" {
		t.Fatalf("string: %q %v", v, ok)
	}
	if v, ok := first.Decimal("Cash Paid"); !ok || v.String() != "1250.75" {
		t.Fatalf("decimal: %s %v", v, ok)
	}
	if v, ok := first.Date("License Expiry"); !ok || !v.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date: %v %v", v, ok)
	}
	if v, ok := first.Bool("Is Active"); !ok || !v {
		t.Fatalf("bool: %v %v", v, ok)
	}

	if v, ok := second.Int64("Driver ID"); !ok || v != 42 {
		t.Fatalf("float-formatted int: %d %v", v, ok)
	}
	if _, ok := second.Decimal("Cash Paid"); ok {
		t.Fatalf("nan cell should read as absent")
	}
	if _, ok := second.String("Notes"); ok {
		t.Fatalf("NaN cell should read as absent")
	}
	if v, ok := second.Date("License Expiry"); !ok || v.Year() < 2023 {
		t.Fatalf("serial date: %v %v", v, ok)
	}
	if v, ok := second.Bool("Is Active"); !ok || v {
		t.Fatalf("bool zero: %v %v", v, ok)
	}
}

func TestMissingSheetIsNotAnError(t *testing.T) {
	wb := NewWorkbookFromRows(map[string][][]string{})
	if _, ok := wb.Sheet("nope"); ok {
		t.Fatalf("expected missing sheet")
	}
}
