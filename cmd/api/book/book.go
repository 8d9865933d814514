package book

import (
	"github.com/shopspring/decimal"
)

// PriceScale and PricePrecision match the NUMERIC(10,2) price column.
const (
	PriceScale     = 2
	PricePrecision = 10
)

// Prices written with more fractional digits than this are refused instead of rounded.
const priceMaxFractionDigits = 20

// maxPrice is the first absolute value NUMERIC(10,2) cannot hold.
var maxPrice = decimal.New(1, PricePrecision-PriceScale)

type Book struct {
	ID     int64
	Title  string
	Author string
	Price  decimal.Decimal
}

type CreateBookRequest struct {
	Title  string
	Author string
	Price  decimal.Decimal
}

type UpdateBookRequest struct {
	ID     int64
	Title  string
	Author string
	Price  decimal.Decimal
}

/* Rounds the price to the stored scale, so what is returned is what was persisted.
Fails with ErrResponsePriceOutOfRange when the rounded price does not fit NUMERIC(10,2).
The exponent is checked before rounding, which would otherwise expand 1e1000000 digit by digit. */
func NormalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsZero() {
		return decimal.Zero, nil
	}

	exp := price.Exponent()
	if exp > PricePrecision-PriceScale || exp < -priceMaxFractionDigits {
		return decimal.Decimal{}, ErrResponsePriceOutOfRange
	}

	rounded := price.Round(PriceScale)
	if rounded.Abs().GreaterThanOrEqual(maxPrice) {
		return decimal.Decimal{}, ErrResponsePriceOutOfRange
	}
	return rounded, nil
}
