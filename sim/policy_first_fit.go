package sim

import "github.com/sirupsen/logrus"

// FirstFit is the baseline policy with no optimisation at all. It takes the
// first outstanding product of the first order with outstanding demand and
// walks the warehouses in id order, loading from each one until the demand
// is covered or the drone is full, then delivers everything in one command.
// It does not look at distances.
type FirstFit struct {
	world *World
}

// Init keeps a reference to the world; there is nothing to precompute.
func (ff *FirstFit) Init(world *World) error {
	ff.world = world
	return nil
}

// CommandsFor implements SchedulingPolicy.
func (ff *FirstFit) CommandsFor(drone *Drone) ([]Command, error) {
	order, item := ff.firstOutstanding()
	if order == nil {
		return nil, nil
	}
	product := item.Product

	var cmds []Command
	quantityToDeliver := 0
	for _, wh := range ff.world.Warehouses {
		stock := wh.Available(product)
		if stock == 0 {
			continue
		}
		qty := min(item.Available, stock, drone.FreeCapacityFor(product))
		if qty == 0 {
			break
		}
		if err := wh.Reserve(product, qty); err != nil {
			return nil, err
		}
		if err := order.Reserve(product, qty); err != nil {
			return nil, err
		}
		if err := drone.Reserve(product, qty); err != nil {
			return nil, err
		}
		quantityToDeliver += qty
		cmds = append(cmds, NewLoadCommand(drone, wh, product, qty))

		if item.Available == 0 {
			break
		}
	}

	if quantityToDeliver == 0 {
		logrus.Debugf("first-fit: nothing to load for %s of %s", product, &order.Site)
		return nil, nil
	}
	cmds = append(cmds, NewDeliverCommand(drone, order, product, quantityToDeliver))
	return cmds, nil
}

func (ff *FirstFit) firstOutstanding() (*Order, *StoreProduct) {
	for _, o := range ff.world.Orders {
		if o.IsCompleted() {
			continue
		}
		if items := o.OutstandingItems(); len(items) > 0 {
			return o, items[0]
		}
	}
	return nil, nil
}
