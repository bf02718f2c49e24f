package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar represents one daily OHLCV bar for a symbol
type Bar struct {
	Symbol    string          `db:"symbol" json:"symbol" validate:"required"`
	Date      time.Time       `db:"bar_date" json:"date" validate:"required"`
	Open      decimal.Decimal `db:"open" json:"open"`
	High      decimal.Decimal `db:"high" json:"high"`
	Low       decimal.Decimal `db:"low" json:"low"`
	Close     decimal.Decimal `db:"close" json:"close"`
	Volume    int64           `db:"volume" json:"volume"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// CloseFloat returns the close price as float64 for feature computation
func (b *Bar) CloseFloat() float64 {
	f, _ := b.Close.Float64()
	return f
}

// OpenFloat returns the open price as float64
func (b *Bar) OpenFloat() float64 {
	f, _ := b.Open.Float64()
	return f
}

// HighFloat returns the high price as float64
func (b *Bar) HighFloat() float64 {
	f, _ := b.High.Float64()
	return f
}

// LowFloat returns the low price as float64
func (b *Bar) LowFloat() float64 {
	f, _ := b.Low.Float64()
	return f
}
