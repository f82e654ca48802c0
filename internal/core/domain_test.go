package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Type:     Income,
		Category: "milk_sale",
		Amount:   decimal.RequireFromString("120.50"),
		Entity:   EntityRef{Type: EntityDistributor, ID: 3},
		Date:     NewDate(2026, 1, 5),
	}

	tests := []struct {
		name    string
		mutate  func(tx *Transaction)
		wantErr error
	}{
		{"valid record", func(tx *Transaction) {}, nil},
		{"zero amount is allowed", func(tx *Transaction) { tx.Amount = decimal.Zero }, nil},
		{"general entity without id", func(tx *Transaction) { tx.Entity = EntityRef{Type: EntityGeneral} }, nil},
		{"missing type", func(tx *Transaction) { tx.Type = "" }, ErrInvalidType},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.RequireFromString("-5") }, ErrInvalidAmount},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"unknown entity type", func(tx *Transaction) { tx.Entity.Type = "vendor" }, ErrInvalidEntity},
		{"worker entity without id", func(tx *Transaction) { tx.Entity = EntityRef{Type: EntityWorker} }, ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		in      string
		want    EntityType
		wantErr bool
	}{
		{"worker", EntityWorker, false},
		{"distributor", EntityDistributor, false},
		{"supplier", EntitySupplier, false},
		{"partner", EntityPartner, false},
		{"general", EntityGeneral, false},
		{"", EntityGeneral, false},
		{"  partner ", EntityPartner, false},
		{"vendor", "", true},
	}

	for _, tt := range tests {
		got, err := ParseEntityType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEntityType(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEntityType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEntityType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDatePeriodAndString(t *testing.T) {
	d := NewDate(2026, 1, 5)
	if d.String() != "2026-01-05" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Period() != "2026-01" {
		t.Errorf("Period() = %q", d.Period())
	}

	parsed, err := ParseDate("2026-01-05")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Errorf("ParseDate mismatch: %v vs %v", parsed, d)
	}

	if _, err := ParseDate("05/01/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestSigned(t *testing.T) {
	in := tx(1, Income, "12.34", NewDate(2026, 1, 1))
	if !in.Signed().Equal(decimal.RequireFromString("12.34")) {
		t.Errorf("income signed = %s", in.Signed())
	}
	out := tx(2, Expense, "12.34", NewDate(2026, 1, 1))
	if !out.Signed().Equal(decimal.RequireFromString("-12.34")) {
		t.Errorf("expense signed = %s", out.Signed())
	}
}
