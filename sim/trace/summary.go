package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalCommands      int
	LoadCount          int
	DeliverCount       int
	CompletedOrders    int
	TotalScore         int
	MeanCompletionTick float64
	LastCompletionTick int
	ActiveDrones       int
	DroneDistribution  map[int]int // drone ID → count of commands issued
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DroneDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalCommands = len(st.Commands)
	for _, c := range st.Commands {
		switch c.Tag {
		case "L":
			summary.LoadCount++
		case "D":
			summary.DeliverCount++
		}
		summary.DroneDistribution[c.DroneID]++
	}

	if len(st.Completions) > 0 {
		totalTicks := 0
		for _, c := range st.Completions {
			totalTicks += c.Tick
			summary.TotalScore += c.Score
			if c.Tick > summary.LastCompletionTick {
				summary.LastCompletionTick = c.Tick
			}
		}
		summary.CompletedOrders = len(st.Completions)
		summary.MeanCompletionTick = float64(totalTicks) / float64(len(st.Completions))
	}

	summary.ActiveDrones = len(summary.DroneDistribution)

	return summary
}
