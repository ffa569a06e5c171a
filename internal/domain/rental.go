package domain

import (
	"fmt"
	"time"
)

type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "ACTIVE"
	RentalStatusCompleted RentalStatus = "COMPLETED"
	RentalStatusCancelled RentalStatus = "CANCELLED"
)

func (s RentalStatus) Valid() bool {
	return s == RentalStatusActive || s == RentalStatusCompleted || s == RentalStatusCancelled
}

func (s RentalStatus) Terminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentStatusUnpaid || p == PaymentStatusPaid || p == PaymentStatusRefunded
}

type Rental struct {
	ID              int32         `json:"id"`
	SuitID          int32         `json:"suit_id"`
	ClientID        int32         `json:"client_id"`
	CreatorID       int32         `json:"creator_id"`
	Status          RentalStatus  `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	TotalPriceCents int64         `json:"total_price_cents"`
	Notes           *string       `json:"notes"`
	// StartDate is the earliest booked day, kept for listing and filtering.
	// Conflict detection only looks at Days.
	StartDate Day       `json:"start_date"`
	Days      []Day     `json:"days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransitionTo validates a status change. Moving to the current status is a
// no-op and reports changed=false.
func (r *Rental) TransitionTo(next RentalStatus) (changed bool, err error) {
	if !next.Valid() {
		return false, fmt.Errorf("%w: unknown rental status %q", ErrInvalidInput, next)
	}
	if next == r.Status {
		return false, nil
	}
	if r.Status != RentalStatusActive || next == RentalStatusActive {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidState, r.Status, next)
	}
	r.Status = next
	return true, nil
}

// LastDay returns the latest booked day.
func (r *Rental) LastDay() Day {
	var last Day
	for _, d := range r.Days {
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	return last
}

// VisibleTo reports whether actor may read the rental. suitOwnerID is the
// owner of the rented suit.
func (r *Rental) VisibleTo(actor Actor, suitOwnerID int32) bool {
	return actor.UserID == r.ClientID || r.ManageableBy(actor, suitOwnerID)
}

// ManageableBy reports whether actor may change or delete the rental.
func (r *Rental) ManageableBy(actor Actor, suitOwnerID int32) bool {
	if !actor.IsAdmin() {
		return false
	}
	return actor.UserID == r.CreatorID || actor.UserID == suitOwnerID
}

// Availability is the set of days on which a suit cannot be booked.
type Availability struct {
	SuitID          int32 `json:"suit_id"`
	UnavailableDays []Day `json:"unavailable_days"`
}
