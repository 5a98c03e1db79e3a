package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyCart rejects a checkout with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidPayment rejects an unknown payment method.
var ErrInvalidPayment = errors.New("invalid payment method")

// OversellItem is one cart line whose requested quantity exceeds the
// last-known stock figure.
type OversellItem struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	InStock   int    `json:"in_stock"`
}

// OversellError aborts the whole sale: no partial checkout is recorded when
// any line oversells.
type OversellError struct {
	Items []OversellItem
}

func (e *OversellError) Error() string {
	lines := make([]string, len(e.Items))
	for i, item := range e.Items {
		lines[i] = fmt.Sprintf("%s: %d requested, %d in stock", item.Name, item.Requested, item.InStock)
	}
	return "items exceed available stock: " + strings.Join(lines, "; ")
}
