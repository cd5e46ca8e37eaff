package pricing

import (
	"errors"
	"fmt"
)

// LineItemNotFoundError rejects a selection referencing a menu item the
// catalog snapshot does not contain. Bad cart input is never partially
// priced or silently dropped.
type LineItemNotFoundError struct {
	MenuItemID string
}

func (e *LineItemNotFoundError) Error() string {
	return fmt.Sprintf("menu item %s not found", e.MenuItemID)
}

// InvalidSelectionError rejects a selection whose shape is unusable before
// any pricing happens, such as a non-positive quantity.
type InvalidSelectionError struct {
	MenuItemID string
	Reason     string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("menu item %s: %s", e.MenuItemID, e.Reason)
}

// PriceChangedError aborts an order commit whose client-quoted total no
// longer matches the authoritative recomputation. It is non-retryable: the
// customer has to reconfirm against the new number.
type PriceChangedError struct {
	QuotedPence     int64
	RecomputedPence int64
}

func (e *PriceChangedError) Error() string {
	return fmt.Sprintf("price changed: quoted %s, now %s",
		FormatGBP(e.QuotedPence), FormatGBP(e.RecomputedPence))
}

// ErrEmptyOrder rejects a pricing request with no selections at all.
var ErrEmptyOrder = errors.New("order contains no selections")
