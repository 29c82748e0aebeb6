// Package testutil provides the shared test fixtures and log-capture
// helpers used across the munipipe package tests. Sample datasets live here
// once, instead of being duplicated per call site.
package testutil

// SampleIssuers returns raw issuer records, header first.
func SampleIssuers() [][]string {
	return [][]string{
		{"issuer_id", "state", "issuer_name"},
		{"ISS-1", "CA", "Golden State Water Authority"},
		{"ISS-2", "TX", "Lone Star School District"},
		{"ISS-3", "NY", "Empire Transit Agency"},
	}
}

// SamplePurposes returns raw purpose records, header first.
func SamplePurposes() [][]string {
	return [][]string{
		{"purpose_id", "purpose_category", "description"},
		{"PUR-1", "Water & Sewer", "Water infrastructure projects"},
		{"PUR-2", "Education", "School construction and renovation"},
		{"PUR-3", "Transportation", "Transit system expansion"},
	}
}

// SampleBonds returns raw bond records, header first. Three bonds share
// issuer ISS-1 so join tests can check that the one-side never duplicates
// fact rows.
func SampleBonds() [][]string {
	return [][]string{
		{"bond_id", "issuer_id", "purpose_id", "coupon_rate", "bond_type", "maturity_date"},
		{"BND-1", "ISS-1", "PUR-1", "4.25", "GO", "2034-06-01"},
		{"BND-2", "ISS-1", "PUR-2", "3.80", "Revenue", "2029-06-01"},
		{"BND-3", "ISS-1", "PUR-3", "5.10", "Revenue", "2025-06-01"},
		{"BND-4", "ISS-2", "PUR-2", "4.00", "GO", "2044-06-01"},
		{"BND-5", "ISS-3", "PUR-3", "4.75", "Revenue", "2023-06-01"},
	}
}

// SampleRatings returns raw rating records, header first. BND-1 carries two
// dated actions so snapshot tests can check that only the later one
// survives; BND-5 carries a label outside the fixed scale.
func SampleRatings() [][]string {
	return [][]string{
		{"bond_id", "rating_date", "rating"},
		{"BND-1", "2023-03-15", "AA"},
		{"BND-1", "2024-02-20", "AA+"},
		{"BND-2", "2023-09-01", "A"},
		{"BND-3", "2023-11-10", "BBB"},
		{"BND-4", "2024-01-05", "AAA"},
		{"BND-5", "2024-03-01", "NR"},
	}
}

// SampleTrades returns raw trade records, header first. BND-1 trades twice
// in January 2024 with yields 3.0 and 4.0, giving the documented monthly
// mean of 3.5, and once more in March, which becomes its latest trade.
func SampleTrades() [][]string {
	return [][]string{
		{"trade_id", "bond_id", "trade_date", "yield", "trade_price", "quantity", "buyer_type"},
		{"TRD-1", "BND-1", "2024-01-05", "3.0", "101.25", "50", "Retail"},
		{"TRD-2", "BND-1", "2024-01-20", "4.0", "100.10", "25", "Institutional"},
		{"TRD-3", "BND-1", "2024-03-12", "6.41", "98.40", "100", "Institutional"},
		{"TRD-4", "BND-2", "2024-02-14", "3.65", "102.00", "40", "Dealer"},
		{"TRD-5", "BND-3", "2024-03-03", "5.05", "99.30", "75", "Retail"},
		{"TRD-6", "BND-4", "2024-03-28", "4.10", "100.85", "60", "Institutional"},
	}
}

// SampleMacro returns raw macro indicator records, header first, using the
// source column names the contract aliases to canonical ones. The latest
// date carries a 0.79 treasury rate so the documented 6.41 − 0.79 = 5.62
// spread scenario holds end to end.
func SampleMacro() [][]string {
	return [][]string{
		{"date", "state", "treasury_10yr", "vix_index", "unemployment_rate"},
		{"2024-01-31", "CA", "4.10", "14.2", "4.9"},
		{"2024-01-31", "TX", "4.10", "14.2", "4.1"},
		{"2024-02-29", "CA", "4.22", "15.0", "4.8"},
		{"2024-03-31", "CA", "0.79", "13.1", "4.7"},
	}
}
