// README: Money value object for order totals (minor units).
package types

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
