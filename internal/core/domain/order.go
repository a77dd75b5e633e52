package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Scope selects active or past records.
type Scope string

const (
	ScopeActive Scope = "active"
	ScopePast   Scope = "past"
)

// ParseScope maps user input to a Scope; empty means active.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "active":
		return ScopeActive, nil
	case "past":
		return ScopePast, nil
	default:
		return "", fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, s)
	}
}

// OrderID identifies an order or printout. Active records carry it as a JSON
// number, past records as a numeric string; both decode to the same value.
type OrderID int64

func (id OrderID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id *OrderID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimPrefix(strings.TrimSpace(s), "#")
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("order id %q: %w", s, err)
		}
		*id = OrderID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = OrderID(n)
	return nil
}

// ParseOrderID accepts "42" or "#42".
func ParseOrderID(s string) (OrderID, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: invalid order id %q", ErrInvalidInput, s)
	}
	return OrderID(n), nil
}

// PageRange is a page selection such as "1-5,10-15". Some endpoints send a
// bare page count instead; that decodes to the equivalent single range.
type PageRange string

func (p *PageRange) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*p = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PageRange(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	switch {
	case n <= 0:
		*p = ""
	case n == 1:
		*p = "1"
	default:
		*p = PageRange("1-" + strconv.Itoa(n))
	}
	return nil
}

// Count returns the number of pages selected. Ranges are inclusive, single
// numbers count once and malformed parts are ignored.
func (p PageRange) Count() int {
	total := 0
	for _, part := range strings.Split(string(p), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if start, end, ok := strings.Cut(part, "-"); ok {
			a, errA := strconv.Atoi(strings.TrimSpace(start))
			b, errB := strconv.Atoi(strings.TrimSpace(end))
			if errA != nil || errB != nil {
				continue
			}
			total += b - a + 1
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			total++
		}
	}
	return total
}

// Order is a read-only projection of a physical-item order.
type Order struct {
	OrderID       OrderID   `json:"order_id"`
	UserID        *int64    `json:"user_id"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
	ItemID        *int64    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Quantity      int       `json:"quantity"`
	Cost          string    `json:"cost"`
	CustomMessage string    `json:"custom_message"`
	OrderTime     time.Time `json:"order_time"`
}

// OrderDetail is the single-record view of an order.
type OrderDetail struct {
	Order
	UserNumber  string `json:"user_number"`
	ItemPrice   string `json:"item_price"`
	IsCompleted bool   `json:"is_completed"`
}

// Printout is a read-only projection of a print job.
type Printout struct {
	OrderID            OrderID   `json:"order_id"`
	UserID             *int64    `json:"user_id"`
	UserName           string    `json:"user_name"`
	UserEmail          string    `json:"user_email"`
	ColouredPages      PageRange `json:"coloured_pages"`
	BlackAndWhitePages PageRange `json:"black_and_white_pages"`
	PrintOnOneSide     bool      `json:"print_on_one_side"`
	Cost               string    `json:"cost"`
	CustomMessage      string    `json:"custom_message"`
	OrderTime          time.Time `json:"order_time"`
	File               *string   `json:"file"`
}

// TotalPages counts colour and black-and-white pages together.
func (p Printout) TotalPages() int {
	return p.ColouredPages.Count() + p.BlackAndWhitePages.Count()
}

// PrintoutDetail is the single-record view of a print job.
type PrintoutDetail struct {
	Printout
	UserNumber  string `json:"user_number"`
	TotalPages  int    `json:"total_pages"`
	IsCompleted bool   `json:"is_completed"`
}

// Completion is returned when an order or printout is marked complete.
type Completion struct {
	Message string  `json:"message"`
	OrderID OrderID `json:"order_id"`
}
