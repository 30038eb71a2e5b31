package dashboard

import "fmt"

const (
	RestockQuantity        = 10
	DefaultReorderQuantity = 10
)

func IsLowStock(item InventoryItem) bool {
	return item.Stock <= item.LowStockThreshold
}

// LowStock keeps inventory order.
func LowStock(items []InventoryItem) []InventoryItem {
	var out []InventoryItem
	for _, item := range items {
		if IsLowStock(item) {
			out = append(out, item)
		}
	}
	return out
}

type ReorderForm struct {
	DrugID   string
	Quantity int
	Notes    string
}

// ReorderSelection decides what the reorder form shows. With no low-stock drugs
// the form is empty. Otherwise a current selection that is still low on stock is
// kept and anything else is replaced by the first low-stock drug.
func ReorderSelection(low []InventoryItem, current ReorderForm) ReorderForm {
	if len(low) == 0 {
		return ReorderForm{Quantity: DefaultReorderQuantity}
	}
	if current.DrugID != "" {
		for _, item := range low {
			if item.ID == current.DrugID {
				if current.Quantity < 1 {
					current.Quantity = DefaultReorderQuantity
				}
				return current
			}
		}
	}
	first := low[0]
	return ReorderForm{
		DrugID:   first.ID,
		Quantity: DefaultReorderQuantity,
		Notes:    fmt.Sprintf("Auto-reorder for low stock (%d)", first.Stock),
	}
}

func FindInventory(items []InventoryItem, name string) (InventoryItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return InventoryItem{}, false
}

func FindInventoryByID(items []InventoryItem, id string) (InventoryItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// CanDispense holds iff the inventory has at least the prescribed quantity of the drug.
func CanDispense(p DispenseItem, items []InventoryItem) bool {
	item, ok := FindInventory(items, p.DrugName)
	return ok && item.Stock >= p.Quantity
}

// PendingCount counts pending prescription lines for a drug.
func PendingCount(queue []DispenseItem, drugName string) int {
	n := 0
	for _, p := range queue {
		if p.DrugName == drugName && p.Status == DispensePending {
			n++
		}
	}
	return n
}
