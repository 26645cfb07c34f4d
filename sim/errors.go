package sim

import (
	"errors"
	"fmt"
)

// ErrContractViolation is matched (via errors.Is) by every reservation,
// checkout, capacity or routing failure. These always indicate a bug in the
// active SchedulingPolicy or in core bookkeeping and stop the run.
var ErrContractViolation = errors.New("contract violation")

// ErrConfig is matched by every world-construction failure. Configuration
// errors are reported before the first tick runs.
var ErrConfig = errors.New("invalid configuration")

// InsufficientStockError is returned when a reservation asks for more than
// is available.
type InsufficientStockError struct {
	Holder    string
	ProductID int
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s has %d of Product#%d to reserve but %d is requested",
		e.Holder, e.Available, e.ProductID, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrContractViolation }

// OverCheckoutError is returned when a checkout (or a drone load) asks for
// more than is reserved.
type OverCheckoutError struct {
	Holder    string
	ProductID int
	Reserved  int
	Requested int
}

func (e *OverCheckoutError) Error() string {
	return fmt.Sprintf("%s has %d of Product#%d reserved but %d is checked out",
		e.Holder, e.Reserved, e.ProductID, e.Requested)
}

func (e *OverCheckoutError) Is(target error) bool { return target == ErrContractViolation }

// UnknownProductError is returned when a holder never stocked or demanded
// the product.
type UnknownProductError struct {
	Holder    string
	ProductID int
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("Product#%d not found in %s", e.ProductID, e.Holder)
}

func (e *UnknownProductError) Is(target error) bool { return target == ErrContractViolation }

// CapacityExceededError is returned when a drone reservation would push its
// total weight over capacity.
type CapacityExceededError struct {
	DroneID       int
	FreeCapacity  int
	RequestWeight int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("Drone#%d: cannot reserve: has free capacity of %d but %d is requested",
		e.DroneID, e.FreeCapacity, e.RequestWeight)
}

func (e *CapacityExceededError) Is(target error) bool { return target == ErrContractViolation }

// MisroutedCommandError is returned when a command is enqueued on a drone
// other than the one it addresses.
type MisroutedCommandError struct {
	DroneID        int
	CommandDroneID int
}

func (e *MisroutedCommandError) Error() string {
	return fmt.Sprintf("Drone#%d: command addressed to Drone#%d", e.DroneID, e.CommandDroneID)
}

func (e *MisroutedCommandError) Is(target error) bool { return target == ErrContractViolation }

// configErrorf wraps ErrConfig with a formatted message.
func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
