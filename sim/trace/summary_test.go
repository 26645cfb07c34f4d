package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalCommands != 0 {
		t.Errorf("expected 0 total commands, got %d", summary.TotalCommands)
	}
	if summary.LoadCount != 0 || summary.DeliverCount != 0 {
		t.Error("expected 0 loads and delivers")
	}
	if summary.CompletedOrders != 0 || summary.TotalScore != 0 {
		t.Error("expected no completions")
	}
	if summary.MeanCompletionTick != 0 || summary.LastCompletionTick != 0 {
		t.Error("expected 0 completion ticks")
	}
	if len(summary.DroneDistribution) != 0 {
		t.Error("expected empty drone distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalCommands != 0 || summary.DroneDistribution == nil {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with loads, delivers and completions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordCommand(CommandRecord{Tick: 0, DroneID: 0, Tag: "L"})
	st.RecordCommand(CommandRecord{Tick: 0, DroneID: 0, Tag: "D"})
	st.RecordCommand(CommandRecord{Tick: 0, DroneID: 1, Tag: "L"})
	st.RecordCommand(CommandRecord{Tick: 0, DroneID: 1, Tag: "L"})
	st.RecordCommand(CommandRecord{Tick: 0, DroneID: 1, Tag: "D"})
	st.RecordCompletion(CompletionRecord{Tick: 4, OrderID: 0, Score: 60})
	st.RecordCompletion(CompletionRecord{Tick: 8, OrderID: 1, Score: 20})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalCommands != 5 {
		t.Errorf("expected 5 commands, got %d", summary.TotalCommands)
	}
	if summary.LoadCount != 3 || summary.DeliverCount != 2 {
		t.Errorf("expected 3 loads and 2 delivers, got %d and %d", summary.LoadCount, summary.DeliverCount)
	}
	if summary.ActiveDrones != 2 {
		t.Errorf("expected 2 active drones, got %d", summary.ActiveDrones)
	}
	if summary.DroneDistribution[1] != 3 {
		t.Errorf("expected drone 1 count 3, got %d", summary.DroneDistribution[1])
	}

	// THEN completion statistics: mean (4 + 8) / 2 = 6, last 8, score 80
	if summary.CompletedOrders != 2 || summary.TotalScore != 80 {
		t.Errorf("expected 2 completions worth 80, got %d worth %d", summary.CompletedOrders, summary.TotalScore)
	}
	if summary.MeanCompletionTick != 6 {
		t.Errorf("expected mean completion tick 6, got %.2f", summary.MeanCompletionTick)
	}
	if summary.LastCompletionTick != 8 {
		t.Errorf("expected last completion tick 8, got %d", summary.LastCompletionTick)
	}
}
