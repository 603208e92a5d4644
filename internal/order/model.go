package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid"

	"github.com/karan123216/Restaurant-Management-System/internal/cart"
	"github.com/karan123216/Restaurant-Management-System/internal/money"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrTransactionFailed = errors.New("order transaction failed")
	ErrInvalidStatus     = errors.New("invalid order status")
)

// OrderStatus is free text; the restaurant staff decide the vocabulary.
type OrderStatus string

const StatusPending OrderStatus = "Pending"

const maxStatusLen = 20

func (os OrderStatus) String() string {
	return string(os)
}

// ParseStatus trims s and checks it fits the status column.
func ParseStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > maxStatusLen {
		return "", ErrInvalidStatus
	}

	return OrderStatus(s), nil
}

// Line is the immutable snapshot of one cart line at purchase time.
// ItemID is nil once the catalog item has been deleted.
type Line struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   uuid.UUID   `json:"order_id"`
	ItemID    *int64      `json:"item_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
}

func (l Line) Total() money.Money {
	return l.UnitPrice.Mul(l.Quantity)
}

type Order struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Total     money.Money `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Lines     []Line      `json:"lines"`
}

// BillLine is one row of the receipt.
type BillLine struct {
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"price"`
	Total     money.Money `json:"line_total"`
}

// Receipt is what a customer gets back after placing an order.
type Receipt struct {
	Order Order       `json:"order"`
	Bill  []BillLine  `json:"bill"`
	Date  time.Time   `json:"date"`
	Total money.Money `json:"total"`
}

// CalculateTotal sums quantity × unit price over the lines.
func CalculateTotal(lines []cart.Line) money.Money {
	total := money.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(l.Quantity))
	}

	return total
}

// NewFromCart builds a pending order and its receipt from a cart snapshot.
// The total is computed here once and never recomputed from the catalog.
func NewFromCart(userID uuid.UUID, lines []cart.Line, now time.Time) (*Receipt, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	orderID, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	o := Order{
		ID:        orderID,
		UserID:    userID,
		Total:     CalculateTotal(lines),
		Status:    StatusPending,
		CreatedAt: now,
		Lines:     make([]Line, 0, len(lines)),
	}
	bill := make([]BillLine, 0, len(lines))

	for _, cl := range lines {
		lineID, err := uuid.NewV4()
		if err != nil {
			return nil, err
		}

		itemID := cl.ItemID
		line := Line{
			ID:        lineID,
			OrderID:   orderID,
			ItemID:    &itemID,
			Name:      cl.Name,
			Quantity:  cl.Quantity,
			UnitPrice: cl.UnitPrice,
		}
		o.Lines = append(o.Lines, line)
		bill = append(bill, BillLine{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.Total(),
		})
	}

	return &Receipt{Order: o, Bill: bill, Date: now, Total: o.Total}, nil
}
