package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delivery-sim/delivery-sim/sim/internal/testutil"
	"github.com/delivery-sim/delivery-sim/sim/trace"
)

func TestSimulator_ScenarioOne_FirstFit(t *testing.T) {
	// GIVEN scenario 1 under first-fit
	w := mustWorld(t, scenarioOneConfig())
	s, err := NewSimulator(w, &FirstFit{})
	require.NoError(t, err)

	// WHEN run to completion
	res, err := s.Run()
	require.NoError(t, err)

	// THEN one load and one delivery of 3 were issued
	require.Len(t, s.History(), 2)
	assert.Equal(t, "0 L 0 0 3", s.History()[0].WireString())
	assert.Equal(t, "0 D 0 0 3", s.History()[1].WireString())

	// THEN the order completes at tick 3 (load 1 tick, flight 1 + 1 ticks),
	// within the 4-tick bound, scoring ceil((10-3)*100/10) = 70
	assert.Equal(t, 3, s.Metrics.CompletionTicks[0])
	assert.LessOrEqual(t, s.Metrics.CompletionTicks[0], 4)
	assert.Equal(t, 70, res.Score)
	assert.Equal(t, 1, res.Completed)
	assert.Empty(t, res.Incomplete)
	// the loop stops as soon as no order remains
	assert.Equal(t, 4, res.Ticks)
}

func TestSimulator_Example_MatchesGolden(t *testing.T) {
	tests := []struct {
		policy string
		golden string
		ticks  map[int]int
	}{
		{"first-fit", "example_first_fit.golden", map[int]int{1: 7, 2: 13, 0: 16}},
		{"heavy-lifting", "example_heavy_lifting.golden", map[int]int{1: 7, 2: 11, 0: 18}},
	}
	for _, tc := range tests {
		t.Run(tc.policy, func(t *testing.T) {
			// GIVEN the public example scenario
			w := mustWorld(t, exampleConfig())
			s, err := NewSimulator(w, NewSchedulingPolicy(tc.policy))
			require.NoError(t, err)

			// WHEN run
			res, err := s.Run()
			require.NoError(t, err)

			// THEN the solution matches the golden file
			var buf bytes.Buffer
			require.NoError(t, WriteSolution(&buf, s.History()))
			testutil.AssertLinesEqual(t, tc.golden, testutil.LoadGolden(t, tc.golden), buf.String())

			// THEN every order completes at the expected tick
			assert.Equal(t, tc.ticks, s.Metrics.CompletionTicks)
			want := 0
			for _, tick := range tc.ticks {
				want += CompletionScore(w.Deadline, tick)
			}
			assert.Equal(t, want, res.Score)
			assert.Equal(t, 228, res.Score)
		})
	}
}

func TestSimulator_Conservation_EveryTick(t *testing.T) {
	for _, policy := range []string{"first-fit", "heavy-lifting"} {
		t.Run(policy, func(t *testing.T) {
			// GIVEN a world with demand spread over several warehouses
			w := mustWorld(t, exactStockConfig())
			initialStock := make([]int, len(w.Products))
			initialDemand := make([]int, len(w.Products))
			for _, p := range w.Products {
				initialStock[p.ID] = w.TotalStock(p)
				initialDemand[p.ID] = w.TotalDemand(p)
			}
			s, err := NewSimulator(w, NewSchedulingPolicy(policy))
			require.NoError(t, err)

			prevStockSide := append([]int(nil), initialStock...)
			completed := make(map[int]bool)
			for !s.Done() {
				require.NoError(t, s.Step())
				tick := s.Clock - 1
				checkTickInvariants(t, w, tick)

				for _, p := range w.Products {
					warehouses, carried, orders := productHoldings(w, p)
					delivered := initialDemand[p.ID] - orders
					// THEN every unit is in a warehouse, on a drone, or delivered
					assert.Equal(t, initialStock[p.ID], warehouses+carried+delivered, "tick %d %s", tick, p)
					// THEN the stock side never grows
					stockSide := warehouses + carried
					assert.LessOrEqual(t, stockSide, prevStockSide[p.ID], "tick %d %s", tick, p)
					assert.GreaterOrEqual(t, stockSide, 0)
					prevStockSide[p.ID] = stockSide
				}

				// THEN completed orders stay completed
				for _, o := range w.Orders {
					if completed[o.ID] {
						assert.True(t, o.IsCompleted(), "order %d reverted at tick %d", o.ID, tick)
					}
					if o.IsCompleted() {
						completed[o.ID] = true
					}
				}
			}
			assert.Len(t, completed, len(w.Orders))
		})
	}
}

func TestSimulator_Deadline_ReportsIncomplete(t *testing.T) {
	// GIVEN scenario 1 with a deadline too short to finish
	cfg := scenarioOneConfig()
	cfg.Deadline = 2
	w := mustWorld(t, cfg)
	s, err := NewSimulator(w, &FirstFit{})
	require.NoError(t, err)

	// WHEN run
	res, err := s.Run()

	// THEN the run ends normally with a partial history and a diagnostic summary
	require.NoError(t, err)
	assert.Equal(t, 2, res.Ticks)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 2, res.Commands)
	assert.Equal(t, []OutstandingItem{{OrderID: 0, ProductID: 0, Available: 0, Reserved: 3}}, res.Incomplete)
	assert.Equal(t, []int{0}, res.IncompleteOrders())
	assert.Len(t, s.ActiveOrders(), 1)
}

func TestSimulator_OrderScoredOnce(t *testing.T) {
	w := mustWorld(t, scenarioOneConfig())
	s, err := NewSimulator(w, &FirstFit{})
	require.NoError(t, err)

	for !s.Done() {
		require.NoError(t, s.Step())
	}
	score := s.Metrics.Score

	// stepping past completion does not score the order again
	require.NoError(t, s.Step())
	assert.Equal(t, score, s.Metrics.Score)
	assert.Equal(t, 1, s.Metrics.CompletedOrders)
}

func TestSimulator_WithTrace_RecordsDecisions(t *testing.T) {
	// GIVEN a decisions-level trace
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions, Policy: "first-fit"})
	w := mustWorld(t, scenarioOneConfig())
	s, err := NewSimulator(w, &FirstFit{}, WithTrace(st))
	require.NoError(t, err)

	// WHEN run
	_, err = s.Run()
	require.NoError(t, err)

	// THEN commands and completions are traced
	require.Len(t, st.Commands, 2)
	assert.Equal(t, trace.CommandRecord{Tick: 0, DroneID: 0, Tag: "L", SiteID: 0, ProductID: 0, Quantity: 3}, st.Commands[0])
	assert.Equal(t, []trace.CompletionRecord{{Tick: 3, OrderID: 0, Score: 70}}, st.Completions)
	summary := trace.Summarize(st)
	assert.Equal(t, s.Metrics.Score, summary.TotalScore)
}

func TestNewSimulator_UnplannedDemand_StillRunnable(t *testing.T) {
	// GIVEN more demand than stock under heavy-lifting
	cfg := scenarioOneConfig()
	cfg.Warehouses[0].Stock = []int{2}
	w := mustWorld(t, cfg)

	s, err := NewSimulator(w, &HeavyLifting{})

	// THEN the residue is reported and the planned part still runs
	var unplanned *UnplannedDemandError
	require.ErrorAs(t, err, &unplanned)
	require.NotNil(t, s)
	res, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, res.Completed)
	assert.Equal(t, []OutstandingItem{{OrderID: 0, ProductID: 0, Available: 1, Reserved: 0}}, res.Incomplete)
}

func TestCompletionScore(t *testing.T) {
	assert.Equal(t, 100, CompletionScore(10, 0))
	assert.Equal(t, 70, CompletionScore(10, 3))
	assert.Equal(t, 60, CompletionScore(10, 4))
	assert.Equal(t, 34, CompletionScore(3, 2))
	assert.Equal(t, 0, CompletionScore(10, 10))
}

func TestMetrics_Print(t *testing.T) {
	m := NewMetrics()
	m.recordCompletion(0, 4, 60)
	m.Ticks = 5
	var buf bytes.Buffer
	m.Print(&buf)
	assert.Contains(t, buf.String(), "Total Score          : 60")
	assert.Contains(t, buf.String(), "Mean Completion Tick : 4.00")
}
