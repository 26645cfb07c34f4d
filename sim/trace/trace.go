package trace

import "github.com/google/uuid"

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every issued command and order completion.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level  TraceLevel
	Policy string // scheduling policy name, copied into the trace header
}

// SimulationTrace collects decision records during a simulation run.
type SimulationTrace struct {
	RunID       string
	Config      TraceConfig
	Commands    []CommandRecord
	Completions []CompletionRecord
}

// NewSimulationTrace creates a SimulationTrace with a fresh run id.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:       uuid.NewString(),
		Config:      config,
		Commands:    make([]CommandRecord, 0),
		Completions: make([]CompletionRecord, 0),
	}
}

// Enabled reports whether records are kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordCommand appends an issued-command record.
func (st *SimulationTrace) RecordCommand(record CommandRecord) {
	if !st.Enabled() {
		return
	}
	st.Commands = append(st.Commands, record)
}

// RecordCompletion appends an order-completion record.
func (st *SimulationTrace) RecordCompletion(record CompletionRecord) {
	if !st.Enabled() {
		return
	}
	st.Completions = append(st.Completions, record)
}
