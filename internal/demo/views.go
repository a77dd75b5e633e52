package demo

import (
	"math"
	"strconv"
	"time"
)

// Wire shapes of the admin endpoints. Past records carry their id as a
// string, active ones as a number.

type orderRow struct {
	OrderID       any       `json:"order_id"`
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

type orderDetail struct {
	orderRow
	UserNumber  string `json:"user_number"`
	ItemPrice   string `json:"item_price"`
	IsCompleted bool   `json:"is_completed"`
}

type printoutRow struct {
	OrderID            any       `json:"order_id"`
	UserID             *int64    `json:"user_id"`
	UserName           string    `json:"user_name"`
	UserEmail          string    `json:"user_email"`
	ColouredPages      string    `json:"coloured_pages"`
	BlackAndWhitePages string    `json:"black_and_white_pages"`
	PrintOnOneSide     bool      `json:"print_on_one_side"`
	Cost               string    `json:"cost"`
	CustomMessage      string    `json:"custom_message"`
	OrderTime          time.Time `json:"order_time"`
	File               *string   `json:"file"`
}

type printoutDetail struct {
	printoutRow
	UserNumber  string `json:"user_number"`
	TotalPages  int    `json:"total_pages"`
	IsCompleted bool   `json:"is_completed"`
}

func wireID(id int64, past bool) any {
	if past {
		return strconv.FormatInt(id, 10)
	}
	return id
}

func parseCost(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
