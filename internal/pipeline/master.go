package pipeline

import (
	"munipipe/internal/tabular"
	"munipipe/pkg/contracts/domain"
)

// MasterRecords converts the snapshot's master table into typed records for
// consumers that want structs rather than tables, such as the parquet
// exporter. Missing cells become nil pointers, not zeros.
func (s *Snapshot) MasterRecords() ([]domain.MasterRecord, error) {
	if s.Master == nil {
		return nil, tabular.NewSchemaError("master", "", "master table unavailable")
	}
	records := make([]domain.MasterRecord, 0, s.Master.Len())
	for i := 0; i < s.Master.Len(); i++ {
		rec := domain.MasterRecord{
			BondID:          mustStr(s.Master, i, "bond_id"),
			IssuerID:        mustStr(s.Master, i, "issuer_id"),
			IssuerName:      mustStr(s.Master, i, "issuer_name"),
			State:           mustStr(s.Master, i, "state"),
			PurposeID:       mustStr(s.Master, i, "purpose_id"),
			PurposeCategory: mustStr(s.Master, i, "purpose_category"),
			BondType:        mustStr(s.Master, i, "bond_type"),
			CouponRate:      floatPtr(s.Master, i, "coupon_rate"),
			MaturityDate:    renderCell(s.Master, i, "maturity_date"),
			Yield:           floatPtr(s.Master, i, "yield"),
			TradeDate:       renderCell(s.Master, i, "trade_date"),
			TradePrice:      floatPtr(s.Master, i, "trade_price"),
			Rating:          mustStr(s.Master, i, "rating"),
			RatingRank:      intPtr(s.Master, i, ColRatingRank),
			TimeToMaturity:  floatPtr(s.Master, i, ColTimeToMaturity),
			YieldSpread:     floatPtr(s.Master, i, ColYieldSpread),
		}
		records = append(records, rec)
	}
	return records, nil
}

func mustStr(t *tabular.Table, i int, col string) string {
	v, err := t.Value(i, col)
	if err != nil {
		return ""
	}
	return v.Str()
}

func renderCell(t *tabular.Table, i int, col string) string {
	v, err := t.Value(i, col)
	if err != nil {
		return ""
	}
	return v.Render()
}

func floatPtr(t *tabular.Table, i int, col string) *float64 {
	v, err := t.Value(i, col)
	if err != nil {
		return nil
	}
	f, ok := v.Float()
	if !ok {
		return nil
	}
	return &f
}

func intPtr(t *tabular.Table, i int, col string) *int64 {
	v, err := t.Value(i, col)
	if err != nil {
		return nil
	}
	f, ok := v.Float()
	if !ok {
		return nil
	}
	n := int64(f)
	return &n
}
