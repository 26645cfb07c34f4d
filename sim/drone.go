// Implements the Drone state machine: a capacity-bounded carrier that
// executes queued Load/Deliver commands one at a time.

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// noActiveCommand is the countdown sentinel of an idle (or between-commands) drone.
const noActiveCommand = -1

// Drone is a mobile carrier. It is Idle while its command queue is empty and
// Executing while the head command's countdown runs.
//
// Capacity is committed in two phases like site stock: a policy calls Reserve
// before issuing a Load (the weight counts against capacity immediately), and
// the Load moves the reservation into carried stock when it executes.
type Drone struct {
	id          int
	location    Location
	distances   *DistanceMap
	capacity    int
	totalWeight int
	payload     []*StoreProduct

	queue     []Command
	countdown int
}

// NewDrone creates an idle drone at start.
func NewDrone(id int, start Location, distances *DistanceMap, capacity int) *Drone {
	return &Drone{
		id:        id,
		location:  start,
		distances: distances,
		capacity:  capacity,
		countdown: noActiveCommand,
	}
}

func (d *Drone) ID() int            { return d.id }
func (d *Drone) Location() Location { return d.location }
func (d *Drone) Capacity() int      { return d.capacity }

// TotalWeight returns the weight of everything reserved or carried.
func (d *Drone) TotalWeight() int { return d.totalWeight }

// QueueLen returns the number of queued commands, including the active one.
func (d *Drone) QueueLen() int { return len(d.queue) }

// Payload returns the payload ledger. Callers must not mutate it.
func (d *Drone) Payload() []*StoreProduct { return d.payload }

func (d *Drone) String() string {
	return fmt.Sprintf("Drone#%d", d.id)
}

// IsIdle reports whether the command queue is empty.
func (d *Drone) IsIdle() bool {
	return len(d.queue) == 0
}

// Enqueue appends cmd to the command queue.
func (d *Drone) Enqueue(cmd Command) error {
	if cmd.Drone() != d {
		other := -1
		if cmd.Drone() != nil {
			other = cmd.Drone().ID()
		}
		return &MisroutedCommandError{DroneID: d.id, CommandDroneID: other}
	}
	d.queue = append(d.queue, cmd)
	logrus.Tracef("%s: new command added: %s", d, cmd)
	return nil
}

// FreeCapacityFor returns how many more units of p the drone can reserve.
func (d *Drone) FreeCapacityFor(p Product) int {
	return (d.capacity - d.totalWeight) / p.Weight
}

// Reserve commits capacity for qty units of p that a later Load will pick up.
// The ledger is left untouched when the capacity check fails.
func (d *Drone) Reserve(p Product, qty int) error {
	if qty < 0 {
		return &InsufficientStockError{Holder: d.String(), ProductID: p.ID, Available: d.FreeCapacityFor(p), Requested: qty}
	}
	loadWeight := qty * p.Weight
	if d.totalWeight+loadWeight > d.capacity {
		return &CapacityExceededError{DroneID: d.id, FreeCapacity: d.capacity - d.totalWeight, RequestWeight: loadWeight}
	}
	if sp := d.payloadEntry(p); sp != nil {
		sp.Reserved += qty
	} else {
		d.payload = append(d.payload, &StoreProduct{Product: p, Reserved: qty})
	}
	d.totalWeight += loadWeight
	return nil
}

// AdvanceTime runs one tick of the state machine. At most one command
// completes per call.
func (d *Drone) AdvanceTime() error {
	if d.countdown == noActiveCommand {
		if len(d.queue) == 0 {
			return nil
		}
		active := d.queue[0]
		d.countdown = 1 + d.distances.Distance(d.location, active.Target())
		logrus.Tracef("%s: new command active: %s, time to complete: %d", d, active, d.countdown)
	}

	d.countdown--
	if d.countdown != 0 {
		return nil
	}

	cmd := d.queue[0]
	d.queue = d.queue[1:]
	d.location = cmd.Target()
	d.countdown = noActiveCommand

	switch c := cmd.(type) {
	case *LoadCommand:
		if err := c.Warehouse.CheckoutReservation(c.product, c.quantity); err != nil {
			return fmt.Errorf("%s: load: %w", d, err)
		}
		if err := d.load(c.product, c.quantity); err != nil {
			return err
		}
		logrus.Tracef("%s: %s, quantity: %d loaded at %s. Total load weight: %d of %d",
			d, c.product, c.quantity, &c.Warehouse.Site, d.totalWeight, d.capacity)
	case *DeliverCommand:
		if err := c.Order.CheckoutReservation(c.product, c.quantity); err != nil {
			return fmt.Errorf("%s: deliver: %w", d, err)
		}
		if err := d.unload(c.product, c.quantity); err != nil {
			return err
		}
		logrus.Tracef("%s: %s, quantity: %d unloaded at %s. Total load weight: %d of %d",
			d, c.product, c.quantity, &c.Order.Site, d.totalWeight, d.capacity)
	default:
		panic(fmt.Sprintf("Drone.AdvanceTime: unhandled command type %T", cmd))
	}
	return nil
}

func (d *Drone) payloadEntry(p Product) *StoreProduct {
	for _, sp := range d.payload {
		if sp.Product.ID == p.ID {
			return sp
		}
	}
	return nil
}

// load turns a capacity reservation into carried stock.
func (d *Drone) load(p Product, qty int) error {
	sp := d.payloadEntry(p)
	if sp == nil {
		return fmt.Errorf("%s: cannot load: has no %s reserved\n%s: %w",
			d, p, d.debugString(), &UnknownProductError{Holder: d.String(), ProductID: p.ID})
	}
	if !sp.realize(qty) {
		return fmt.Errorf("%s: cannot load\n%s: %w",
			d, d.debugString(), &OverCheckoutError{Holder: d.String(), ProductID: p.ID, Reserved: sp.Reserved, Requested: qty})
	}
	return nil
}

// unload removes delivered stock from the payload and frees its capacity.
func (d *Drone) unload(p Product, qty int) error {
	sp := d.payloadEntry(p)
	if sp == nil {
		return fmt.Errorf("%s: cannot deliver: %w", d, &UnknownProductError{Holder: d.String(), ProductID: p.ID})
	}
	if qty < 0 || sp.Available < qty {
		return fmt.Errorf("%s: cannot deliver\n%s: %w",
			d, d.debugString(), &OverCheckoutError{Holder: d.String(), ProductID: p.ID, Reserved: sp.Available, Requested: qty})
	}
	sp.Available -= qty
	d.totalWeight -= qty * p.Weight
	if sp.Available == 0 && sp.Reserved == 0 {
		d.dropPayloadEntry(sp)
	}
	return nil
}

func (d *Drone) dropPayloadEntry(entry *StoreProduct) {
	for i, sp := range d.payload {
		if sp == entry {
			d.payload = append(d.payload[:i], d.payload[i+1:]...)
			return
		}
	}
}

func (d *Drone) debugString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\ncapacity: %d, free capacity: %d\n", d, d.capacity, d.capacity-d.totalWeight)
	for _, sp := range d.payload {
		fmt.Fprintf(&sb, " %s, available: %d (weight: %d), reserved: %d (weight: %d)\n",
			sp.Product, sp.Available, sp.Available*sp.Product.Weight, sp.Reserved, sp.Reserved*sp.Product.Weight)
	}
	return sb.String()
}
