package orders

import (
	"errors"
	"fmt"
)

var (
	ErrTotalMismatch = errors.New("total amount does not match line items")
	ErrInvalidStatus = errors.New("invalid order status")
)

// ValidationError is returned when a submission is rejected before any write.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid order: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SubmissionError means the order store refused the write. The caller's cart
// is still intact and the submission may be retried.
type SubmissionError struct {
	RestaurantID string
	OrderNumber  string
	Err          error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit order %s for %s: %v", e.OrderNumber, e.RestaurantID, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
