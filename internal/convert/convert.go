// internal/convert/convert.go
package convert

import (
	"fmt"

	"albion-gold-bot/internal/types"
)

// Converter turns a gold price (Silver per 1 Gold) into the rupiah estimate
// for one million Silver. Pure arithmetic, no rounding: display code rounds
// to two decimals.
type Converter struct {
	konstantaC float64
}

func NewConverter(konstantaC float64) *Converter {
	return &Converter{konstantaC: konstantaC}
}

// ToRupiah computes konstantaC / price. A price of zero or below never
// reaches the division.
func (c *Converter) ToRupiah(price int) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: %d", types.ErrInvalidPrice, price)
	}
	return c.konstantaC / float64(price), nil
}
