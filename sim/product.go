// Defines the product catalogue entry and the two-phase quantity ledger entry
// shared by warehouses, orders and drone payloads.

package sim

import "fmt"

// Product is an immutable product type. Weight is used both for stock
// accounting and for drone capacity accounting.
type Product struct {
	ID     int
	Weight int
}

func (p Product) String() string {
	return fmt.Sprintf("Product#%d[weight:%d]", p.ID, p.Weight)
}

// StoreProduct is one ledger entry: the quantity of a product held by a site
// or drone, split into what is still free to claim (Available) and what has
// been promised to an in-flight plan (Reserved).
type StoreProduct struct {
	Product   Product
	Available int
	Reserved  int
}

// Total returns Available + Reserved.
func (sp *StoreProduct) Total() int {
	return sp.Available + sp.Reserved
}

// Weight returns the total weight of the entry (available and reserved).
func (sp *StoreProduct) Weight() int {
	return sp.Total() * sp.Product.Weight
}

// reserve moves qty from Available to Reserved.
func (sp *StoreProduct) reserve(qty int) bool {
	if qty < 0 || qty > sp.Available {
		return false
	}
	sp.Available -= qty
	sp.Reserved += qty
	return true
}

// checkout retires qty from Reserved. Available is untouched.
func (sp *StoreProduct) checkout(qty int) bool {
	if qty < 0 || qty > sp.Reserved {
		return false
	}
	sp.Reserved -= qty
	return true
}

// realize moves qty from Reserved to Available (a drone's reservation
// becoming carried stock).
func (sp *StoreProduct) realize(qty int) bool {
	if qty < 0 || qty > sp.Reserved {
		return false
	}
	sp.Reserved -= qty
	sp.Available += qty
	return true
}
