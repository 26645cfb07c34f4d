package cmd

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/delivery-sim/delivery-sim/sim"
	"github.com/delivery-sim/delivery-sim/sim/trace"
)

//go:embed schemas/run_config.schema.json
var runConfigSchemaJSON string

// RunConfig holds run settings loadable from a YAML file. Empty or zero
// fields mean "not set" and leave the flag default or scenario value alone.
type RunConfig struct {
	Policy   string         `yaml:"policy"`
	Deadline int            `yaml:"deadline"` // overrides the scenario deadline when > 0
	Output   string         `yaml:"output"`
	Log      string         `yaml:"log"`
	Trace    RunTraceConfig `yaml:"trace"`
}

// RunTraceConfig selects decision tracing and where the trace file goes.
type RunTraceConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

func compileRunConfigSchema() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("run_config.schema.json", runConfigSchemaJSON)
}

// LoadRunConfig reads path, checks it against the run config schema and
// decodes it with strict field checking.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	return ParseRunConfig(data)
}

// ParseRunConfig validates data against the schema, then decodes it.
func ParseRunConfig(data []byte) (*RunConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	if doc == nil {
		return &RunConfig{}, nil
	}
	// Round-trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	schema, err := compileRunConfigSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling run config schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("run config does not match schema: %w", err)
	}

	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints the schema cannot express.
func (c *RunConfig) Validate() error {
	if !sim.IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown scheduling policy %q", c.Policy)
	}
	if c.Deadline < 0 {
		return fmt.Errorf("deadline must be non-negative, got %d", c.Deadline)
	}
	if !trace.IsValidTraceLevel(c.Trace.Level) {
		return fmt.Errorf("unknown trace level %q", c.Trace.Level)
	}
	if trace.TraceLevel(c.Trace.Level) == trace.TraceLevelDecisions && c.Trace.Output == "" {
		return fmt.Errorf("trace level %q requires a trace output path", c.Trace.Level)
	}
	return nil
}
