// Package sim provides the discrete-time simulation kernel for a drone
// delivery fleet.
//
// # Reading Guide
//
// Start with these files to understand the kernel:
//   - site.go: warehouses and orders, and the two-phase reserve/checkout ledger
//   - drone.go: the drone state machine executing queued Load/Deliver commands
//   - simulator.go: the tick loop, order completion and scoring
//
// # Reservation protocol
//
// Every unit of stock moves through named ledger transitions. A policy
// reserves warehouse stock, order demand and drone capacity when it plans a
// trip; the drone checks out the warehouse reservation when a Load executes
// and the order reservation when a Deliver executes. Contract violations are
// returned as errors matching ErrContractViolation and stop the run.
//
// # Key Interfaces
//
//   - SchedulingPolicy: turns world state into commands for idle drones
//     (FirstFit, HeavyLifting)
//   - Command: sealed Load/Deliver sum type with its wire rendering
//
// Sub-packages:
//   - sim/scenario/: scenario loading (text and YAML)
//   - sim/trace/: decision trace recording
package sim
