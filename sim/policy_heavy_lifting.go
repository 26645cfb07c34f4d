package sim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// PayloadItem is one warehouse pickup of a precomputed payload.
type PayloadItem struct {
	Warehouse *Warehouse
	Product   Product
	Quantity  int
}

// Payload is a bundle of pickups, all destined for one order, that fits in
// one drone.
type Payload struct {
	Order *Order
	Items []PayloadItem
}

// Weight returns the total weight of the payload.
func (p *Payload) Weight() int {
	total := 0
	for _, it := range p.Items {
		total += it.Quantity * it.Product.Weight
	}
	return total
}

func (p *Payload) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s items:", &p.Order.Site)
	for _, it := range p.Items {
		fmt.Fprintf(&sb, " [%s, %s, %d]", &it.Warehouse.Site, it.Product, it.Quantity)
	}
	fmt.Fprintf(&sb, " total payload weight: %d", p.Weight())
	return sb.String()
}

// OutstandingItem is demand an order still has, with its ledger split.
type OutstandingItem struct {
	OrderID   int
	ProductID int
	Available int
	Reserved  int
}

// UnplannedDemandError is returned by HeavyLifting.Init when some demand
// could not be packed into payloads (not enough stock, or a product heavier
// than a drone can lift). Planned payloads remain usable.
type UnplannedDemandError struct {
	Items []OutstandingItem
}

func (e *UnplannedDemandError) Error() string {
	parts := make([]string, len(e.Items))
	for i, it := range e.Items {
		parts[i] = fmt.Sprintf("Order#%d/Product#%d=%d", it.OrderID, it.ProductID, it.Available)
	}
	return "unplanned demand after pre-processing: " + strings.Join(parts, ", ")
}

// HeavyLifting precomputes full-capacity payloads for every order and hands
// them out one per idle drone.
//
// Orders are planned fewest-distinct-products first. For each outstanding
// product the closest stocked warehouse is chosen, measured as
// distance(planning location, warehouse) + distance(warehouse, order), where
// the planning location starts at the order and moves to each chosen
// warehouse. Warehouse stock and order demand are reserved during Init;
// drone capacity is reserved when a payload is handed out.
type HeavyLifting struct {
	world     *World
	payloads  []*Payload
	unplanned []OutstandingItem
}

// Init builds the payload queue.
func (hl *HeavyLifting) Init(world *World) error {
	logrus.Tracef("heavy-lifting: pre-processing %d orders", len(world.Orders))
	hl.world = world
	hl.payloads = nil
	hl.unplanned = nil

	orders := make([]*Order, len(world.Orders))
	copy(orders, world.Orders)
	sort.SliceStable(orders, func(i, j int) bool {
		return len(orders[i].OutstandingItems()) < len(orders[j].OutstandingItems())
	})

	for _, order := range orders {
		if err := hl.planOrder(order); err != nil {
			return err
		}
	}

	for _, order := range world.Orders {
		for _, sp := range order.OutstandingItems() {
			hl.unplanned = append(hl.unplanned, OutstandingItem{
				OrderID: order.ID, ProductID: sp.Product.ID, Available: sp.Available, Reserved: sp.Reserved,
			})
			logrus.Errorf("heavy-lifting: pre-processing error: %s has outstanding %s, available: %d",
				&order.Site, sp.Product, sp.Available)
		}
	}
	logrus.Debugf("heavy-lifting: pre-processing done, %d payloads", len(hl.payloads))
	if len(hl.unplanned) > 0 {
		return &UnplannedDemandError{Items: hl.unplanned}
	}
	return nil
}

func (hl *HeavyLifting) planOrder(order *Order) error {
	planningLoc := order.Location
	remaining := 0
	var payload *Payload

	for _, item := range order.OutstandingItems() {
		product := item.Product
		if product.Weight > hl.world.MaxDroneLoad {
			// Can never be lifted; left as residue.
			continue
		}
		for item.Available > 0 {
			if remaining < product.Weight {
				remaining = hl.world.MaxDroneLoad
				payload = &Payload{Order: order}
				hl.payloads = append(hl.payloads, payload)
			}
			wh := hl.closestStocked(planningLoc, order, product)
			if wh == nil {
				break
			}
			qty := min(item.Available, wh.Available(product), remaining/product.Weight)
			if err := order.Reserve(product, qty); err != nil {
				return err
			}
			if err := wh.Reserve(product, qty); err != nil {
				return err
			}
			remaining -= qty * product.Weight
			planningLoc = wh.Location
			payload.Items = append(payload.Items, PayloadItem{Warehouse: wh, Product: product, Quantity: qty})
			logrus.Tracef("heavy-lifting: booking %d of %s in %s for %s", qty, product, &wh.Site, &order.Site)
		}
	}

	// A payload opened just before stock ran out carries nothing.
	if payload != nil && len(payload.Items) == 0 {
		hl.payloads = hl.payloads[:len(hl.payloads)-1]
	}
	for _, p := range hl.payloads {
		if p.Order == order {
			logrus.Debugf("heavy-lifting: payload %s", p)
		}
	}
	return nil
}

// closestStocked returns the warehouse with positive stock of p minimizing
// distance(from, w) + distance(w, order); ties go to the lowest id.
func (hl *HeavyLifting) closestStocked(from Location, order *Order, p Product) *Warehouse {
	var best *Warehouse
	bestCost := 0
	for _, wh := range hl.world.Warehouses {
		if wh.Available(p) == 0 {
			continue
		}
		cost := hl.world.Distances.Distance(from, wh.Location) + hl.world.Distances.Distance(wh.Location, order.Location)
		if best == nil || cost < bestCost {
			best, bestCost = wh, cost
		}
	}
	return best
}

// CommandsFor hands the next payload to drone: all loads first, then all
// deliveries.
func (hl *HeavyLifting) CommandsFor(drone *Drone) ([]Command, error) {
	if len(hl.payloads) == 0 {
		return nil, nil
	}
	payload := hl.payloads[0]
	hl.payloads = hl.payloads[1:]
	logrus.Tracef("heavy-lifting: %s takes payload %s", drone, payload)

	loads := make([]Command, 0, len(payload.Items))
	delivers := make([]Command, 0, len(payload.Items))
	for _, it := range payload.Items {
		if err := drone.Reserve(it.Product, it.Quantity); err != nil {
			return nil, err
		}
		loads = append(loads, NewLoadCommand(drone, it.Warehouse, it.Product, it.Quantity))
		delivers = append(delivers, NewDeliverCommand(drone, payload.Order, it.Product, it.Quantity))
	}
	return append(loads, delivers...), nil
}

// Pending returns the number of payloads not yet handed out.
func (hl *HeavyLifting) Pending() int {
	return len(hl.payloads)
}

// Unplanned returns the demand Init could not plan.
func (hl *HeavyLifting) Unplanned() []OutstandingItem {
	return hl.unplanned
}
