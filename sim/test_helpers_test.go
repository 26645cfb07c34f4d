package sim

import "testing"

// mustWorld builds a world from cfg, failing the test on error.
func mustWorld(t *testing.T, cfg *WorldConfig) *World {
	t.Helper()
	w, err := NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// scenarioOneConfig is one warehouse at (0,0) with 10 units of a weight-1
// product, one order at (0,1) for 3 units, one drone of capacity 10 and a
// deadline of 10.
func scenarioOneConfig() *WorldConfig {
	return &WorldConfig{
		Rows: 10, Columns: 10,
		Drones:         1,
		Deadline:       10,
		MaxDroneLoad:   10,
		ProductWeights: []int{1},
		Warehouses:     []WarehouseConfig{{Row: 0, Column: 0, Stock: []int{10}}},
		Orders:         []OrderConfig{{Row: 0, Column: 1, Items: []int{0, 0, 0}}},
	}
}

// exampleConfig mirrors testdata/example.in.
func exampleConfig() *WorldConfig {
	return &WorldConfig{
		Rows: 100, Columns: 100,
		Drones:         3,
		Deadline:       50,
		MaxDroneLoad:   500,
		ProductWeights: []int{100, 5, 450},
		Warehouses: []WarehouseConfig{
			{Row: 0, Column: 0, Stock: []int{5, 1, 0}},
			{Row: 5, Column: 5, Stock: []int{0, 10, 2}},
		},
		Orders: []OrderConfig{
			{Row: 1, Column: 1, Items: []int{2, 0}},
			{Row: 3, Column: 3, Items: []int{0, 0, 0}},
			{Row: 5, Column: 6, Items: []int{2}},
		},
	}
}

// exactStockConfig has total demand exactly equal to total stock, spread over
// warehouses so that orders must be served from several of them.
func exactStockConfig() *WorldConfig {
	return &WorldConfig{
		Drones:         2,
		Deadline:       500,
		MaxDroneLoad:   20,
		ProductWeights: []int{3, 7, 2},
		Warehouses: []WarehouseConfig{
			{Row: 0, Column: 0, Stock: []int{4, 1, 0}},
			{Row: 8, Column: 2, Stock: []int{2, 2, 5}},
			{Row: 3, Column: 9, Stock: []int{0, 1, 3}},
		},
		Orders: []OrderConfig{
			{Row: 5, Column: 5, Items: []int{0, 0, 0, 1, 2, 2}},
			{Row: 1, Column: 8, Items: []int{1, 1, 1}},
			{Row: 9, Column: 9, Items: []int{0, 0, 0, 2, 2, 2, 2, 2, 2}},
		},
	}
}

// productHoldings sums available+reserved of p over warehouses and order
// ledgers, and the carried (available) quantity over drone payloads. Drone
// reservations are excluded: they mirror warehouse reservations until the
// load executes.
func productHoldings(w *World, p Product) (warehouses, carried, orders int) {
	for _, wh := range w.Warehouses {
		if sp, err := wh.Product(p); err == nil {
			warehouses += sp.Total()
		}
	}
	for _, d := range w.Drones {
		for _, sp := range d.Payload() {
			if sp.Product.ID == p.ID {
				carried += sp.Available
			}
		}
	}
	for _, o := range w.Orders {
		if sp, err := o.Product(p); err == nil {
			orders += sp.Total()
		}
	}
	return warehouses, carried, orders
}

// checkTickInvariants verifies capacity and ledger sign invariants.
func checkTickInvariants(t *testing.T, w *World, tick int) {
	t.Helper()
	for _, d := range w.Drones {
		weight := 0
		for _, sp := range d.Payload() {
			if sp.Available < 0 || sp.Reserved < 0 {
				t.Fatalf("tick %d: %s has negative payload entry %+v", tick, d, *sp)
			}
			weight += sp.Weight()
		}
		if weight != d.TotalWeight() {
			t.Fatalf("tick %d: %s payload weight %d != tracked total %d", tick, d, weight, d.TotalWeight())
		}
		if weight > d.Capacity() {
			t.Fatalf("tick %d: %s carries %d over capacity %d", tick, d, weight, d.Capacity())
		}
	}
	for _, wh := range w.Warehouses {
		for _, sp := range wh.Products() {
			if sp.Available < 0 || sp.Reserved < 0 {
				t.Fatalf("tick %d: %s has negative entry %+v", tick, &wh.Site, *sp)
			}
		}
	}
	for _, o := range w.Orders {
		for _, sp := range o.Products() {
			if sp.Available < 0 || sp.Reserved < 0 {
				t.Fatalf("tick %d: %s has negative entry %+v", tick, &o.Site, *sp)
			}
		}
	}
}
