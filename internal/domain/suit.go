package domain

import (
	"fmt"
	"strings"
	"time"
)

type SuitStatus string

const (
	SuitStatusAvailable   SuitStatus = "AVAILABLE"
	SuitStatusUnavailable SuitStatus = "UNAVAILABLE"
	SuitStatusRented      SuitStatus = "RENTED"
)

type SuitSize string

const (
	SuitSize3XL SuitSize = "3XL"
	SuitSize2XL SuitSize = "2XL"
	SuitSizeXL  SuitSize = "XL"
	SuitSizeL   SuitSize = "L"
	SuitSizeM   SuitSize = "M"
	SuitSizeS   SuitSize = "S"
	SuitSizeXS  SuitSize = "XS"
)

type SuitGender string

const (
	SuitGenderMen   SuitGender = "men"
	SuitGenderWomen SuitGender = "women"
	SuitGenderGirls SuitGender = "girls"
	SuitGenderBoys  SuitGender = "boys"
)

type SuitCategory string

const (
	SuitCategoryWedding     SuitCategory = "wedding"
	SuitCategoryTraditional SuitCategory = "traditional"
	SuitCategoryParty       SuitCategory = "party"
	SuitCategoryFormal      SuitCategory = "formal"
	SuitCategoryOther       SuitCategory = "other"
)

type Suit struct {
	ID               int32        `json:"id"`
	OwnerID          int32        `json:"owner_id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Size             SuitSize     `json:"size"`
	Color            string       `json:"color"`
	Gender           SuitGender   `json:"gender"`
	Category         SuitCategory `json:"category"`
	PricePerDayCents int64        `json:"price_per_day_cents"`
	Status           SuitStatus   `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Validate checks the listing fields an owner controls.
func (s *Suit) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if s.PricePerDayCents < 0 {
		return fmt.Errorf("%w: price_per_day_cents must not be negative", ErrInvalidInput)
	}
	switch s.Size {
	case SuitSize3XL, SuitSize2XL, SuitSizeXL, SuitSizeL, SuitSizeM, SuitSizeS, SuitSizeXS:
	default:
		return fmt.Errorf("%w: unknown size %q", ErrInvalidInput, s.Size)
	}
	switch s.Gender {
	case SuitGenderMen, SuitGenderWomen, SuitGenderGirls, SuitGenderBoys:
	default:
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidInput, s.Gender)
	}
	switch s.Category {
	case SuitCategoryWedding, SuitCategoryTraditional, SuitCategoryParty, SuitCategoryFormal, SuitCategoryOther:
	default:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s.Category)
	}
	switch s.Status {
	case SuitStatusAvailable, SuitStatusUnavailable, SuitStatusRented:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, s.Status)
	}
	return nil
}
