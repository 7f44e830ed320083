package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds the units on a single cart line.
const MaxLineQuantity = 999

var ErrQuantityTooLarge = errors.New("quantity exceeds per-line limit")

type CartItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
	ImageHint string          `json:"image_hint"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges by product id: a second add bumps the quantity of the
// existing line instead of appending a duplicate. A line that would pass
// MaxLineQuantity is left untouched and ErrQuantityTooLarge returned.
func (c *Cart) Add(it CartItem) error {
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	if it.Quantity > MaxLineQuantity {
		return ErrQuantityTooLarge
	}
	for i := range c.Items {
		if c.Items[i].ID == it.ID {
			if c.Items[i].Quantity > MaxLineQuantity-it.Quantity {
				return ErrQuantityTooLarge
			}
			c.Items[i].Quantity += it.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, it)
	return nil
}

// SetQuantity overwrites a line's quantity. Zero or less removes the line.
// Reports whether the line existed.
func (c *Cart) SetQuantity(id string, qty int) (bool, error) {
	if qty <= 0 {
		return c.Remove(id), nil
	}
	if qty > MaxLineQuantity {
		return false, ErrQuantityTooLarge
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = qty
			return true, nil
		}
	}
	return false, nil
}

func (c *Cart) Remove(id string) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Merge folds every line of other into c. Merged lines are capped at
// MaxLineQuantity rather than rejected.
func (c *Cart) Merge(other Cart) {
	for _, it := range other.Items {
		if it.Quantity > MaxLineQuantity {
			it.Quantity = MaxLineQuantity
		}
		if err := c.Add(it); err != nil {
			c.capLine(it.ID)
		}
	}
}

func (c *Cart) capLine(id string) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = MaxLineQuantity
		}
	}
}

// Count is the number of units, not lines.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// View is the wire shape returned to clients.
type View struct {
	Items []CartItem      `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func (c Cart) View() View {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return View{Items: items, Count: c.Count(), Total: c.Total()}
}
