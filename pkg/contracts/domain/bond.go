package domain

import (
	"time"
)

// Bond represents a municipal bond master record. Bonds are static reference
// entities: one row per bond, unchanged for the lifetime of a pipeline run.
type Bond struct {
	ID           string    `json:"bond_id" validate:"required"`
	IssuerID     string    `json:"issuer_id" validate:"required"`
	PurposeID    string    `json:"purpose_id" validate:"required"`
	CouponRate   float64   `json:"coupon_rate" validate:"min=0"`
	BondType     BondType  `json:"bond_type" validate:"required"`
	MaturityDate time.Time `json:"maturity_date"`
}

// BondType represents the security structure of a bond.
type BondType string

const (
	BondTypeGeneralObligation BondType = "GO"
	BondTypeRevenue           BondType = "Revenue"
)

// Rating represents a dated credit rating action for a bond. Multiple rows
// per bond accumulate over time; cross-sectional views use only the
// chronologically latest row per bond.
type Rating struct {
	BondID string    `json:"bond_id" validate:"required"`
	Date   time.Time `json:"rating_date"`
	Label  string    `json:"rating" validate:"required"`
}
