package sim

import "fmt"

// SchedulingPolicy turns world state into drone commands.
//
// Init is called exactly once, before the first tick, and may build internal
// caches (and reservations) from the world. CommandsFor is called at most once
// per drone per tick, only for idle drones; an empty result means "nothing to
// do this tick". Any reservation a policy makes must be matched by the
// commands it returns.
type SchedulingPolicy interface {
	Init(world *World) error
	CommandsFor(drone *Drone) ([]Command, error)
}

// ValidPolicies is the set of recognized scheduling policy names.
// Shared by RunConfig validation and NewSchedulingPolicy.
var ValidPolicies = map[string]bool{"": true, "first-fit": true, "heavy-lifting": true}

// IsValidPolicy reports whether name is a recognized scheduling policy.
func IsValidPolicy(name string) bool {
	return ValidPolicies[name]
}

// NewSchedulingPolicy creates a scheduling policy by name.
// An empty string defaults to first-fit (for CLI flag default compatibility).
// Panics on unrecognized names.
func NewSchedulingPolicy(name string) SchedulingPolicy {
	if !IsValidPolicy(name) {
		panic(fmt.Sprintf("unknown scheduling policy %q", name))
	}
	switch name {
	case "", "first-fit":
		return &FirstFit{}
	case "heavy-lifting":
		return &HeavyLifting{}
	default:
		panic(fmt.Sprintf("unhandled scheduling policy %q", name))
	}
}
