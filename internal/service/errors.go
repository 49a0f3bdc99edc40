package service

import (
	"errors"
	"fmt"
)

// Checkout-path errors. All are caught at the API boundary and turned
// into user-visible messages; none of them clears the cart.
var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// ValidationError reports a missing or invalid checkout field. The user
// recovers by re-prompting, so the field name is part of the error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
