// Defines grid locations and the reservable sites (warehouses and orders)
// that hold per-product ledgers.

package sim

import "fmt"

// Location is a grid cell plus the identity index assigned by the World
// when the location was created. The index is only used to address the
// distance cache and never changes.
type Location struct {
	index  int
	Row    int
	Column int
}

// Index returns the distance-cache index of the location.
func (l Location) Index() int {
	return l.index
}

// Site is a fixed location holding a per-product ledger. Warehouses and
// orders both embed a Site; other components change its ledger only through
// Reserve and CheckoutReservation.
type Site struct {
	Location
	ID   int
	kind string
	// products is kept in ascending product-id order.
	products []*StoreProduct
}

func newSite(kind string, id int, loc Location, products []*StoreProduct) Site {
	return Site{Location: loc, ID: id, kind: kind, products: products}
}

func (s *Site) String() string {
	return fmt.Sprintf("%s#%d[%d, %d]", s.kind, s.ID, s.Row, s.Column)
}

// Product returns the ledger entry for p.
func (s *Site) Product(p Product) (*StoreProduct, error) {
	for _, sp := range s.products {
		if sp.Product.ID == p.ID {
			return sp, nil
		}
	}
	return nil, &UnknownProductError{Holder: s.String(), ProductID: p.ID}
}

// Available returns the unreserved quantity of p, or 0 if the site does not
// hold p at all.
func (s *Site) Available(p Product) int {
	sp, err := s.Product(p)
	if err != nil {
		return 0
	}
	return sp.Available
}

// Products returns the ledger entries in product-id order. Callers must not
// mutate the returned entries.
func (s *Site) Products() []*StoreProduct {
	return s.products
}

// Reserve moves qty units of p from available to reserved.
func (s *Site) Reserve(p Product, qty int) error {
	sp, err := s.Product(p)
	if err != nil {
		return err
	}
	if !sp.reserve(qty) {
		return &InsufficientStockError{Holder: s.String(), ProductID: p.ID, Available: sp.Available, Requested: qty}
	}
	return nil
}

// CheckoutReservation retires qty reserved units of p. The caller is
// responsible for having moved the units into their new owner.
func (s *Site) CheckoutReservation(p Product, qty int) error {
	sp, err := s.Product(p)
	if err != nil {
		return err
	}
	if !sp.checkout(qty) {
		return &OverCheckoutError{Holder: s.String(), ProductID: p.ID, Reserved: sp.Reserved, Requested: qty}
	}
	return nil
}

// Warehouse is a site stocking every product type of the scenario.
type Warehouse struct {
	Site
}

// Order is a site whose ledger holds outstanding demand: Available is demand
// nobody has planned for yet, Reserved is demand a drone is on its way with.
type Order struct {
	Site
}

// OutstandingItems returns the entries that still have unplanned demand.
func (o *Order) OutstandingItems() []*StoreProduct {
	var out []*StoreProduct
	for _, sp := range o.products {
		if sp.Available > 0 {
			out = append(out, sp)
		}
	}
	return out
}

// ReservedItems returns the entries with demand currently being delivered.
func (o *Order) ReservedItems() []*StoreProduct {
	var out []*StoreProduct
	for _, sp := range o.products {
		if sp.Reserved > 0 {
			out = append(out, sp)
		}
	}
	return out
}

// IsCompleted reports whether every ordered product has been delivered.
func (o *Order) IsCompleted() bool {
	for _, sp := range o.products {
		if sp.Available > 0 || sp.Reserved > 0 {
			return false
		}
	}
	return true
}
