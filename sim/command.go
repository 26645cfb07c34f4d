package sim

import "fmt"

// CommandTag is the wire discriminant of a command.
type CommandTag string

const (
	TagLoad    CommandTag = "L"
	TagDeliver CommandTag = "D"
)

// Command is an instruction queued on a drone. The set of implementations is
// closed: *LoadCommand and *DeliverCommand.
type Command interface {
	// Drone returns the drone that executes the command.
	Drone() *Drone
	Tag() CommandTag
	// Target returns the location the drone travels to.
	Target() Location
	Product() Product
	Quantity() int
	// WireString renders "<droneId> <tag> <siteId> <productId> <quantity>".
	WireString() string
	String() string

	isCommand()
}

// LoadCommand picks up Quantity units of a product at a warehouse.
type LoadCommand struct {
	drone     *Drone
	Warehouse *Warehouse
	product   Product
	quantity  int
}

// NewLoadCommand creates a load command for drone d.
func NewLoadCommand(d *Drone, w *Warehouse, p Product, qty int) *LoadCommand {
	return &LoadCommand{drone: d, Warehouse: w, product: p, quantity: qty}
}

func (c *LoadCommand) Drone() *Drone    { return c.drone }
func (c *LoadCommand) Tag() CommandTag  { return TagLoad }
func (c *LoadCommand) Target() Location { return c.Warehouse.Location }
func (c *LoadCommand) Product() Product { return c.product }
func (c *LoadCommand) Quantity() int    { return c.quantity }
func (c *LoadCommand) isCommand()       {}

func (c *LoadCommand) WireString() string {
	return wireString(c)
}

func (c *LoadCommand) String() string {
	return fmt.Sprintf("%s: load %dx %s at %s", c.drone, c.quantity, c.product, &c.Warehouse.Site)
}

// DeliverCommand drops Quantity units of a product at an order.
type DeliverCommand struct {
	drone    *Drone
	Order    *Order
	product  Product
	quantity int
}

// NewDeliverCommand creates a deliver command for drone d.
func NewDeliverCommand(d *Drone, o *Order, p Product, qty int) *DeliverCommand {
	return &DeliverCommand{drone: d, Order: o, product: p, quantity: qty}
}

func (c *DeliverCommand) Drone() *Drone    { return c.drone }
func (c *DeliverCommand) Tag() CommandTag  { return TagDeliver }
func (c *DeliverCommand) Target() Location { return c.Order.Location }
func (c *DeliverCommand) Product() Product { return c.product }
func (c *DeliverCommand) Quantity() int    { return c.quantity }
func (c *DeliverCommand) isCommand()       {}

func (c *DeliverCommand) WireString() string {
	return wireString(c)
}

func (c *DeliverCommand) String() string {
	return fmt.Sprintf("%s: fly to %s and deliver %dx %s", c.drone, &c.Order.Site, c.quantity, c.product)
}

// wireString is the single serializer for every command variant.
func wireString(c Command) string {
	var siteID int
	switch cmd := c.(type) {
	case *LoadCommand:
		siteID = cmd.Warehouse.ID
	case *DeliverCommand:
		siteID = cmd.Order.ID
	default:
		panic(fmt.Sprintf("wireString: unhandled command type %T", c))
	}
	return fmt.Sprintf("%d %s %d %d %d", c.Drone().ID(), c.Tag(), siteID, c.Product().ID, c.Quantity())
}
