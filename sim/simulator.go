// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/delivery-sim/delivery-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, the world, the
// active scheduling policy and the tick loop.
type Simulator struct {
	Clock    int
	Deadline int
	World    *World
	Policy   SchedulingPolicy
	Metrics  *Metrics

	// active holds the orders not yet completed, in id order.
	active  []*Order
	history []Command
	trace   *trace.SimulationTrace
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTrace records every issued command and order completion into st.
func WithTrace(st *trace.SimulationTrace) Option {
	return func(s *Simulator) {
		s.trace = st
	}
}

// NewSimulator creates a simulator for world and initializes policy.
// The policy's Init error is returned alongside a usable simulator when it
// is an *UnplannedDemandError, so the caller can report it and still run.
func NewSimulator(world *World, policy SchedulingPolicy, opts ...Option) (*Simulator, error) {
	if world == nil {
		panic("NewSimulator: world must not be nil")
	}
	if policy == nil {
		panic("NewSimulator: policy must not be nil")
	}
	s := &Simulator{
		Clock:    0,
		Deadline: world.Deadline,
		World:    world,
		Policy:   policy,
		Metrics:  NewMetrics(),
		active:   append([]*Order(nil), world.Orders...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if err := policy.Init(world); err != nil {
		if _, ok := err.(*UnplannedDemandError); ok {
			return s, err
		}
		return nil, fmt.Errorf("initializing policy: %w", err)
	}
	return s, nil
}

// Done reports whether the deadline is reached or no order remains.
func (s *Simulator) Done() bool {
	return s.Clock >= s.Deadline || len(s.active) == 0
}

// Step simulates one tick: every drone advances in id order and idle drones
// get new commands, then completed orders are scored and the clock advances.
func (s *Simulator) Step() error {
	logrus.Tracef("[tick %07d] step", s.Clock)
	for _, drone := range s.World.Drones {
		if err := drone.AdvanceTime(); err != nil {
			return fmt.Errorf("tick %d: %w", s.Clock, err)
		}
		if !drone.IsIdle() {
			logrus.Tracef("%s is busy", drone)
			continue
		}
		cmds, err := s.Policy.CommandsFor(drone)
		if err != nil {
			return fmt.Errorf("tick %d: scheduling %s: %w", s.Clock, drone, err)
		}
		for _, cmd := range cmds {
			if err := drone.Enqueue(cmd); err != nil {
				return fmt.Errorf("tick %d: %w", s.Clock, err)
			}
			s.recordCommand(cmd)
		}
	}

	remaining := s.active[:0]
	for _, order := range s.active {
		if order.IsCompleted() {
			s.orderCompleted(order)
		} else {
			remaining = append(remaining, order)
		}
	}
	s.active = remaining

	s.Clock++
	return nil
}

// Run steps until the deadline or until every order is completed. A run that
// hits the deadline with orders left is a normal outcome; the returned Result
// lists what was not delivered.
func (s *Simulator) Run() (*Result, error) {
	logrus.Infof("Simulation started (deadline: %d, policy: %T, drones: %d, orders: %d)",
		s.Deadline, s.Policy, len(s.World.Drones), len(s.active))
	for !s.Done() {
		if err := s.Step(); err != nil {
			return nil, err
		}
	}
	s.Metrics.Ticks = s.Clock

	res := s.Result()
	if len(s.active) > 0 {
		logrus.Warnf("Simulation aborted: deadline, incomplete orders: %d", len(s.active))
		for _, it := range res.Incomplete {
			logrus.Warnf("Undelivered: Order#%d / Product#%d, available: %d, reserved: %d",
				it.OrderID, it.ProductID, it.Available, it.Reserved)
		}
	}
	logrus.Infof("[tick %07d] Simulation complete (total score: %d)", s.Clock, s.Metrics.Score)
	return res, nil
}

// Result summarizes the run so far.
func (s *Simulator) Result() *Result {
	return &Result{
		Score:      s.Metrics.Score,
		Ticks:      s.Clock,
		Completed:  s.Metrics.CompletedOrders,
		Commands:   len(s.history),
		Incomplete: s.incomplete(),
	}
}

// History returns every issued command in issue order.
func (s *Simulator) History() []Command {
	return s.history
}

// ActiveOrders returns the orders not yet completed.
func (s *Simulator) ActiveOrders() []*Order {
	return s.active
}

func (s *Simulator) recordCommand(cmd Command) {
	logrus.Debugf("[tick %07d] new command: %s", s.Clock, cmd)
	s.history = append(s.history, cmd)
	s.Metrics.recordCommand(cmd)
	if s.trace == nil {
		return
	}
	siteID := 0
	switch c := cmd.(type) {
	case *LoadCommand:
		siteID = c.Warehouse.ID
	case *DeliverCommand:
		siteID = c.Order.ID
	}
	s.trace.RecordCommand(trace.CommandRecord{
		Tick:      s.Clock,
		DroneID:   cmd.Drone().ID(),
		Tag:       string(cmd.Tag()),
		SiteID:    siteID,
		ProductID: cmd.Product().ID,
		Quantity:  cmd.Quantity(),
	})
}

// orderCompleted scores an order; it is called once per order because
// completed orders leave the active set.
func (s *Simulator) orderCompleted(order *Order) {
	score := CompletionScore(s.Deadline, s.Clock)
	s.Metrics.recordCompletion(order.ID, s.Clock, score)
	logrus.Debugf("[tick %07d] Order#%d completed, score: %d, total score: %d", s.Clock, order.ID, score, s.Metrics.Score)
	if s.trace != nil {
		s.trace.RecordCompletion(trace.CompletionRecord{Tick: s.Clock, OrderID: order.ID, Score: score})
	}
}

func (s *Simulator) incomplete() []OutstandingItem {
	var out []OutstandingItem
	for _, order := range s.active {
		for _, sp := range order.Products() {
			if sp.Available > 0 || sp.Reserved > 0 {
				out = append(out, OutstandingItem{
					OrderID: order.ID, ProductID: sp.Product.ID, Available: sp.Available, Reserved: sp.Reserved,
				})
			}
		}
	}
	return out
}

// CompletionScore is ceil((deadline - tick) * 100 / deadline).
func CompletionScore(deadline, tick int) int {
	num := (deadline - tick) * 100
	if num <= 0 {
		return 0
	}
	return (num + deadline - 1) / deadline
}
