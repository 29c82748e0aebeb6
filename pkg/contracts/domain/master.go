package domain

// MasterRecord is the denormalized cross-sectional record: one row per bond,
// enriched with issuer and purpose dimensions, the latest trade, the latest
// rating with its ordinal rank, and the computed fields. It is derived, never
// persisted as an input, and immutable once produced.
//
// Optional fields are pointers so a missing upstream value survives the
// round-trip through JSON and parquet as null rather than a zero that
// downstream consumers would mistake for data.
type MasterRecord struct {
	BondID          string   `json:"bond_id" parquet:"bond_id" validate:"required"`
	IssuerID        string   `json:"issuer_id" parquet:"issuer_id"`
	IssuerName      string   `json:"issuer_name" parquet:"issuer_name"`
	State           string   `json:"state" parquet:"state"`
	PurposeID       string   `json:"purpose_id" parquet:"purpose_id"`
	PurposeCategory string   `json:"purpose_category" parquet:"purpose_category"`
	BondType        string   `json:"bond_type" parquet:"bond_type"`
	CouponRate      *float64 `json:"coupon_rate" parquet:"coupon_rate,optional"`
	MaturityDate    string   `json:"maturity_date" parquet:"maturity_date"`
	Yield           *float64 `json:"yield" parquet:"yield,optional"`
	TradeDate       string   `json:"trade_date,omitempty" parquet:"trade_date,optional"`
	TradePrice      *float64 `json:"trade_price" parquet:"trade_price,optional"`
	Rating          string   `json:"rating,omitempty" parquet:"rating,optional"`
	RatingRank      *int64   `json:"rating_rank" parquet:"rating_rank,optional"`
	TimeToMaturity  *float64 `json:"time_to_maturity" parquet:"time_to_maturity,optional"`
	YieldSpread     *float64 `json:"yield_spread" parquet:"yield_spread,optional"`
}
