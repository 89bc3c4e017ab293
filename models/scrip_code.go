package models

type ScripCode struct {
	ID           int64  `db:"id"`
	Symbol       string `db:"symbol"`
	ScripCode    int64  `db:"scrip_code"`
	Exchange     string `db:"exchange"`
	ExchangeType string `db:"exchange_type"`
	CompanyName  string `db:"company_name"`
	LotSize      int64  `db:"lot_size"`
	IsActive     bool   `db:"is_active"`
}
