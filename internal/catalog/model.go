package catalog

import (
	"errors"

	"github.com/karan123216/Restaurant-Management-System/internal/money"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrInvalidItem      = errors.New("invalid item")
	ErrInvalidCategory  = errors.New("invalid category")
)

const (
	maxCategoryName = 50
	maxItemName     = 100
)

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Item struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Price       money.Money `db:"price_cents" json:"price"`
	CategoryID  int64       `db:"category_id" json:"category_id"`
	Image       string      `db:"image" json:"image,omitempty"`
}

// NewItem is the admin input for a catalog entry.
type NewItem struct {
	Name        string
	Description string
	Price       money.Money
	CategoryID  int64
	Image       string
}

// MenuSection is one category of the menu page with its items.
type MenuSection struct {
	Category Category `json:"category"`
	Items    []Item   `json:"items"`
}

// CascadeResult reports what an explicit catalog deletion removed or detached.
type CascadeResult struct {
	ItemIDs            []int64 `json:"item_ids"`
	CartLines          int64   `json:"cart_lines_removed"`
	DetachedOrderLines int64   `json:"order_lines_detached"`
}

// BuildMenu groups items under their categories, keeping category order.
// Categories without items are kept with an empty item list.
func BuildMenu(categories []Category, items []Item) []MenuSection {
	byCategory := make(map[int64][]Item, len(categories))
	for _, it := range items {
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}

	menu := make([]MenuSection, 0, len(categories))
	for _, c := range categories {
		sectionItems := byCategory[c.ID]
		if sectionItems == nil {
			sectionItems = []Item{}
		}
		menu = append(menu, MenuSection{Category: c, Items: sectionItems})
	}

	return menu
}
