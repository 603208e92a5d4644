package cart

import (
	"time"

	"github.com/karan123216/Restaurant-Management-System/internal/money"
)

// Line is one cart row joined with the catalog item it refers to.
type Line struct {
	ItemID    int64       `json:"item_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"unit_price"`
	Total     money.Money `json:"total"`
	AddedAt   time.Time   `json:"added_at"`
}

// View is the checkout projection of a cart.
type View struct {
	Lines []Line      `json:"items"`
	Total money.Money `json:"total"`
}

// NewView fills in every line total and the grand total.
func NewView(lines []Line) View {
	if lines == nil {
		lines = []Line{}
	}

	total := money.Zero
	for i := range lines {
		lines[i].Total = lines[i].UnitPrice.Mul(lines[i].Quantity)
		total = total.Add(lines[i].Total)
	}

	return View{Lines: lines, Total: total}
}

func (v View) Empty() bool {
	return len(v.Lines) == 0
}
