package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	EntityWorker      EntityType = "worker"
	EntityDistributor EntityType = "distributor"
	EntitySupplier    EntityType = "supplier"
	EntityPartner     EntityType = "partner"
	EntityGeneral     EntityType = "general"
)

type (
	TransactionType string

	EntityType string

	Date struct {
		time.Time
	}

	// EntityRef identifies the counterparty of a transaction.
	// ID is zero when Type is EntityGeneral.
	EntityRef struct {
		Type EntityType
		ID   int64
	}

	// Transaction is an immutable ledger record. Amount is always
	// non-negative; direction is carried by Type alone.
	Transaction struct {
		ID            int64
		Type          TransactionType
		Category      string
		Amount        decimal.Decimal
		PaymentSource string
		PartnerID     int64
		Entity        EntityRef
		Description   string
		Date          Date
	}

	// LedgerEntry is a transaction annotated with the cumulative balance
	// up to and including it. Derived, never persisted.
	LedgerEntry struct {
		Transaction
		RunningBalance decimal.Decimal
	}
)

var (
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidEntity = errors.New("invalid entity type")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
)

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Period returns the year-month bucket of the date, e.g. "2026-01".
func (d Date) Period() string {
	return d.Format("2006-01")
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
}

// ParseEntityType maps a wire value onto the closed set of entity kinds.
// An empty value means "general" (no counterparty).
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(strings.TrimSpace(s)) {
	case EntityWorker:
		return EntityWorker, nil
	case EntityDistributor:
		return EntityDistributor, nil
	case EntitySupplier:
		return EntitySupplier, nil
	case EntityPartner:
		return EntityPartner, nil
	case EntityGeneral, "":
		return EntityGeneral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEntity, s)
}

func (e EntityRef) Validate() error {
	switch e.Type {
	case EntityWorker, EntityDistributor, EntitySupplier, EntityPartner:
		if e.ID <= 0 {
			return fmt.Errorf("%w: %s requires an entity id", ErrInvalidEntity, e.Type)
		}
		return nil
	case EntityGeneral:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidEntity, string(e.Type))
}

// Validate rejects malformed records at the collaborator boundary.
// BuildLedger and the aggregations assume input that has passed here.
func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount)
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return t.Entity.Validate()
}

// Signed returns the amount with the sign implied by the transaction type:
// positive for income, negative for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}
