// Tracks run-wide statistics: score, completions and issued commands.

package sim

import (
	"fmt"
	"io"
	"sort"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Score           int         // Sum of completion scores
	CompletedOrders int         // Number of completed orders
	Ticks           int         // Ticks simulated
	LoadCommands    int         // Load commands issued
	DeliverCommands int         // Deliver commands issued
	CompletionTicks map[int]int // order ID -> tick of completion
	OrderScores     map[int]int // order ID -> score
}

// NewMetrics returns an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CompletionTicks: make(map[int]int),
		OrderScores:     make(map[int]int),
	}
}

func (m *Metrics) recordCommand(cmd Command) {
	switch cmd.(type) {
	case *LoadCommand:
		m.LoadCommands++
	case *DeliverCommand:
		m.DeliverCommands++
	}
}

func (m *Metrics) recordCompletion(orderID, tick, score int) {
	m.CompletedOrders++
	m.Score += score
	m.CompletionTicks[orderID] = tick
	m.OrderScores[orderID] = score
}

// Print writes the aggregated metrics to w.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Ticks simulated      : %d\n", m.Ticks)
	fmt.Fprintf(w, "Completed Orders     : %d\n", m.CompletedOrders)
	fmt.Fprintf(w, "Load Commands        : %d\n", m.LoadCommands)
	fmt.Fprintf(w, "Deliver Commands     : %d\n", m.DeliverCommands)
	if m.CompletedOrders > 0 {
		ticks := sortedValues(m.CompletionTicks)
		fmt.Fprintf(w, "Mean Completion Tick : %.2f\n", CalculateMean(ticks))
		fmt.Fprintf(w, "P50 Completion Tick  : %.2f\n", CalculatePercentile(ticks, 50))
		fmt.Fprintf(w, "P90 Completion Tick  : %.2f\n", CalculatePercentile(ticks, 90))
		fmt.Fprintf(w, "Last Completion Tick : %d\n", ticks[len(ticks)-1])
	}
	fmt.Fprintf(w, "Total Score          : %d\n", m.Score)
}

// Result is the outcome of a run.
type Result struct {
	Score     int
	Ticks     int
	Completed int
	Commands  int
	// Incomplete lists, per incomplete order, each product still held in its
	// ledger. Empty when every order was completed.
	Incomplete []OutstandingItem
}

// IncompleteOrders returns the ids of orders listed in Incomplete, ascending.
func (r *Result) IncompleteOrders() []int {
	seen := make(map[int]bool)
	var ids []int
	for _, it := range r.Incomplete {
		if !seen[it.OrderID] {
			seen[it.OrderID] = true
			ids = append(ids, it.OrderID)
		}
	}
	sort.Ints(ids)
	return ids
}
