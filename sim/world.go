// Builds the simulated world (products, warehouses, orders, drones and the
// distance cache) from a validated WorldConfig.

package sim

// WorldConfig is the scenario as produced by a parser. Order items are a
// multiset of product ids; stock vectors are indexed by product id.
type WorldConfig struct {
	Rows           int               `yaml:"rows"`
	Columns        int               `yaml:"columns"`
	Drones         int               `yaml:"drones"`
	Deadline       int               `yaml:"deadline"`
	MaxDroneLoad   int               `yaml:"max_drone_load"`
	ProductWeights []int             `yaml:"product_weights"`
	Warehouses     []WarehouseConfig `yaml:"warehouses"`
	Orders         []OrderConfig     `yaml:"orders"`
}

// WarehouseConfig describes one warehouse of the scenario.
type WarehouseConfig struct {
	Row    int   `yaml:"row"`
	Column int   `yaml:"column"`
	Stock  []int `yaml:"stock"`
}

// OrderConfig describes one order of the scenario.
type OrderConfig struct {
	Row    int   `yaml:"row"`
	Column int   `yaml:"column"`
	Items  []int `yaml:"items"`
}

// Validate checks ranges and cross references of the configuration.
func (c *WorldConfig) Validate() error {
	if c.Deadline <= 0 {
		return configErrorf("deadline must be positive, got %d", c.Deadline)
	}
	if c.MaxDroneLoad <= 0 {
		return configErrorf("max drone load must be positive, got %d", c.MaxDroneLoad)
	}
	if c.Drones < 0 {
		return configErrorf("drone count must be non-negative, got %d", c.Drones)
	}
	if c.Drones > 0 && len(c.Warehouses) == 0 {
		return configErrorf("%d drones but no warehouse to start from", c.Drones)
	}
	for i, w := range c.ProductWeights {
		if w <= 0 {
			return configErrorf("product %d: weight must be positive, got %d", i, w)
		}
	}
	for i, wh := range c.Warehouses {
		if err := c.checkCoordinates("warehouse", i, wh.Row, wh.Column); err != nil {
			return err
		}
		if len(wh.Stock) > len(c.ProductWeights) {
			return configErrorf("warehouse %d: stock for %d products but only %d product types", i, len(wh.Stock), len(c.ProductWeights))
		}
		for p, qty := range wh.Stock {
			if qty < 0 {
				return configErrorf("warehouse %d: negative stock %d of product %d", i, qty, p)
			}
		}
	}
	for i, o := range c.Orders {
		if err := c.checkCoordinates("order", i, o.Row, o.Column); err != nil {
			return err
		}
		for _, p := range o.Items {
			if p < 0 || p >= len(c.ProductWeights) {
				return configErrorf("order %d: unknown product %d", i, p)
			}
		}
	}
	return nil
}

// checkCoordinates only bounds locations when the grid size is known.
func (c *WorldConfig) checkCoordinates(kind string, id, row, col int) error {
	if row < 0 || col < 0 {
		return configErrorf("%s %d: negative coordinates [%d, %d]", kind, id, row, col)
	}
	if c.Rows > 0 && row >= c.Rows {
		return configErrorf("%s %d: row %d outside grid of %d rows", kind, id, row, c.Rows)
	}
	if c.Columns > 0 && col >= c.Columns {
		return configErrorf("%s %d: column %d outside grid of %d columns", kind, id, col, c.Columns)
	}
	return nil
}

// locationAllocator issues sequential location identities during world
// construction.
type locationAllocator struct {
	next int
}

func (a *locationAllocator) newLocation(row, col int) Location {
	loc := Location{index: a.next, Row: row, Column: col}
	a.next++
	return loc
}

// World owns every product, site, drone and the distance cache of a run.
type World struct {
	Deadline     int
	MaxDroneLoad int
	Products     []Product
	Warehouses   []*Warehouse
	// Orders holds every order in id order, completed or not.
	Orders    []*Order
	Drones    []*Drone
	Distances *DistanceMap
}

// NewWorld validates cfg and builds the world. Location identities are
// assigned to warehouses first, then orders.
func NewWorld(cfg *WorldConfig) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		Deadline:     cfg.Deadline,
		MaxDroneLoad: cfg.MaxDroneLoad,
		Products:     make([]Product, len(cfg.ProductWeights)),
	}
	for i, weight := range cfg.ProductWeights {
		w.Products[i] = Product{ID: i, Weight: weight}
	}

	var alloc locationAllocator
	for i, wc := range cfg.Warehouses {
		stock := make([]*StoreProduct, len(w.Products))
		for p, product := range w.Products {
			qty := 0
			if p < len(wc.Stock) {
				qty = wc.Stock[p]
			}
			stock[p] = &StoreProduct{Product: product, Available: qty}
		}
		loc := alloc.newLocation(wc.Row, wc.Column)
		w.Warehouses = append(w.Warehouses, &Warehouse{Site: newSite("Warehouse", i, loc, stock)})
	}
	for i, oc := range cfg.Orders {
		demand := make([]int, len(w.Products))
		for _, p := range oc.Items {
			demand[p]++
		}
		var items []*StoreProduct
		for p, qty := range demand {
			if qty > 0 {
				items = append(items, &StoreProduct{Product: w.Products[p], Available: qty})
			}
		}
		loc := alloc.newLocation(oc.Row, oc.Column)
		w.Orders = append(w.Orders, &Order{Site: newSite("Order", i, loc, items)})
	}

	w.Distances = NewDistanceMap(alloc.next)
	if err := checkDistanceMap(w.Distances, alloc.next); err != nil {
		return nil, err
	}

	for i := 0; i < cfg.Drones; i++ {
		w.Drones = append(w.Drones, NewDrone(i, w.Warehouses[0].Location, w.Distances, cfg.MaxDroneLoad))
	}
	return w, nil
}

// checkDistanceMap reports a map that cannot address every issued location.
func checkDistanceMap(m *DistanceMap, issued int) error {
	if m.Size() < issued {
		return configErrorf("distance map of size %d cannot address %d locations", m.Size(), issued)
	}
	return nil
}

// TotalStock returns the total warehouse stock (available + reserved) of p.
func (w *World) TotalStock(p Product) int {
	total := 0
	for _, wh := range w.Warehouses {
		if sp, err := wh.Product(p); err == nil {
			total += sp.Total()
		}
	}
	return total
}

// TotalDemand returns the total order demand (available + reserved) of p.
func (w *World) TotalDemand(p Product) int {
	total := 0
	for _, o := range w.Orders {
		if sp, err := o.Product(p); err == nil {
			total += sp.Total()
		}
	}
	return total
}
