package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/delivery-sim/delivery-sim/sim"
	"github.com/delivery-sim/delivery-sim/sim/scenario"
	"github.com/delivery-sim/delivery-sim/sim/trace"
)

var (
	scenarioPath string // Scenario file (.in text format, or .yaml/.yml)
	policyName   string // Scheduling policy name
	logLevel     string // Log verbosity level
	outputPath   string // Solution file; stdout when empty
	configPath   string // Optional YAML run config
	traceLevel   string // Decision trace level
	traceOutput  string // Trace file (zstd-compressed JSON lines)
	printSummary bool   // Print run metrics after the solution
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "delivery-sim",
	Short: "Tick-based simulator for a drone delivery fleet",
}

// runOptions is the merged result of the run config file and CLI flags.
type runOptions struct {
	Scenario    string
	Policy      string
	Deadline    int
	Output      string
	TraceLevel  string
	TraceOutput string
	Summary     bool
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a scenario and write the command log",
	Run: func(cmd *cobra.Command, args []string) {
		opts, level, err := resolveRunOptions(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		setLogLevel(level)

		startTime := time.Now()
		if _, err := runSimulation(opts, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Simulation wall time: %v", time.Since(startTime))
	},
}

// validateCmd checks a scenario (and optional run config) without simulating.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario and run config, and report totals",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)
		if err := validateScenario(scenarioPath, configPath, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// traceSummaryCmd prints aggregate statistics of a recorded trace.
var traceSummaryCmd = &cobra.Command{
	Use:   "trace-summary <trace-file>",
	Short: "Summarize a recorded decision trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(logLevel)
		st, err := trace.ReadFile(args[0])
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		printTraceSummary(cmd.OutOrStdout(), st)
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// resolveRunOptions loads the run config when given, then lets explicitly
// set flags override its values. It returns the options and the log level.
func resolveRunOptions(cmd *cobra.Command) (runOptions, string, error) {
	opts := runOptions{
		Scenario:    scenarioPath,
		Policy:      policyName,
		Output:      outputPath,
		TraceLevel:  traceLevel,
		TraceOutput: traceOutput,
		Summary:     printSummary,
	}
	level := logLevel
	if configPath == "" {
		return opts, level, nil
	}

	rc, err := LoadRunConfig(configPath)
	if err != nil {
		return opts, level, err
	}
	if err := rc.Validate(); err != nil {
		return opts, level, fmt.Errorf("invalid run config %s: %w", configPath, err)
	}
	flags := cmd.Flags()
	if rc.Policy != "" && !flags.Changed("policy") {
		opts.Policy = rc.Policy
	}
	if rc.Output != "" && !flags.Changed("output") {
		opts.Output = rc.Output
	}
	if rc.Log != "" && !flags.Changed("log") {
		level = rc.Log
	}
	if rc.Trace.Level != "" && !flags.Changed("trace-level") {
		opts.TraceLevel = rc.Trace.Level
	}
	if rc.Trace.Output != "" && !flags.Changed("trace-out") {
		opts.TraceOutput = rc.Trace.Output
	}
	opts.Deadline = rc.Deadline
	return opts, level, nil
}

// runSimulation loads the scenario, runs it under the chosen policy and
// writes the solution to opts.Output, or to stdout when it is empty.
func runSimulation(opts runOptions, stdout io.Writer) (*sim.Result, error) {
	if opts.Scenario == "" {
		return nil, errors.New("no scenario given (use --scenario)")
	}
	if !sim.IsValidPolicy(opts.Policy) {
		return nil, fmt.Errorf("unknown scheduling policy %q", opts.Policy)
	}
	if !trace.IsValidTraceLevel(opts.TraceLevel) {
		return nil, fmt.Errorf("unknown trace level %q", opts.TraceLevel)
	}

	cfg, err := scenario.Load(opts.Scenario)
	if err != nil {
		return nil, err
	}
	if opts.Deadline > 0 {
		logrus.Infof("Overriding scenario deadline %d with %d", cfg.Deadline, opts.Deadline)
		cfg.Deadline = opts.Deadline
	}
	world, err := sim.NewWorld(cfg)
	if err != nil {
		return nil, fmt.Errorf("building world from %s: %w", opts.Scenario, err)
	}

	var st *trace.SimulationTrace
	if trace.TraceLevel(opts.TraceLevel) == trace.TraceLevelDecisions {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelDecisions, Policy: opts.Policy})
	}

	s, err := sim.NewSimulator(world, sim.NewSchedulingPolicy(opts.Policy), sim.WithTrace(st))
	var unplanned *sim.UnplannedDemandError
	if errors.As(err, &unplanned) {
		logrus.Warnf("Continuing with partial plan: %v", err)
	} else if err != nil {
		return nil, err
	}

	res, err := s.Run()
	if err != nil {
		return nil, fmt.Errorf("simulation stopped at tick %d: %w", s.Clock, err)
	}

	if opts.Output == "" {
		if err := sim.WriteSolution(stdout, s.History()); err != nil {
			return nil, fmt.Errorf("writing solution: %w", err)
		}
	} else {
		if err := sim.WriteSolutionFile(opts.Output, s.History()); err != nil {
			return nil, err
		}
		logrus.Infof("Solution with %d commands written to %s", len(s.History()), opts.Output)
	}

	if st != nil && opts.TraceOutput != "" {
		if err := trace.WriteFile(opts.TraceOutput, st); err != nil {
			return nil, err
		}
		logrus.Infof("Trace %s written to %s", st.RunID, opts.TraceOutput)
	}

	if opts.Summary {
		s.Metrics.Print(stdout)
	}
	return res, nil
}

// validateScenario loads and checks the scenario and optional run config,
// then prints the scenario totals.
func validateScenario(path, runConfig string, out io.Writer) error {
	if path == "" {
		return errors.New("no scenario given (use --scenario)")
	}
	if runConfig != "" {
		rc, err := LoadRunConfig(runConfig)
		if err != nil {
			return err
		}
		if err := rc.Validate(); err != nil {
			return fmt.Errorf("invalid run config %s: %w", runConfig, err)
		}
	}
	cfg, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if _, err := sim.NewWorld(cfg); err != nil {
		return fmt.Errorf("building world from %s: %w", path, err)
	}

	st := scenario.Summarize(cfg)
	fmt.Fprintf(out, "Scenario             : %s\n", path)
	fmt.Fprintf(out, "Products             : %d\n", st.Products)
	fmt.Fprintf(out, "Warehouses           : %d\n", st.Warehouses)
	fmt.Fprintf(out, "Orders               : %d\n", st.Orders)
	fmt.Fprintf(out, "Drones               : %d\n", st.Drones)
	fmt.Fprintf(out, "Ordered Items        : %d\n", st.TotalItems)
	fmt.Fprintf(out, "Stocked Items        : %d\n", st.TotalStock)
	fmt.Fprintf(out, "Ordered Weight       : %d\n", st.TotalWeight)
	for p := 0; p < st.Products; p++ {
		if short, ok := st.Shortfall[p]; ok {
			fmt.Fprintf(out, "Shortfall            : Product#%d short by %d\n", p, short)
		}
	}
	return nil
}

func printTraceSummary(out io.Writer, st *trace.SimulationTrace) {
	sum := trace.Summarize(st)
	fmt.Fprintf(out, "Run ID               : %s\n", st.RunID)
	fmt.Fprintf(out, "Policy               : %s\n", st.Config.Policy)
	fmt.Fprintf(out, "Commands             : %d (load %d, deliver %d)\n", sum.TotalCommands, sum.LoadCount, sum.DeliverCount)
	fmt.Fprintf(out, "Active Drones        : %d\n", sum.ActiveDrones)
	fmt.Fprintf(out, "Completed Orders     : %d\n", sum.CompletedOrders)
	fmt.Fprintf(out, "Total Score          : %d\n", sum.TotalScore)
	fmt.Fprintf(out, "Mean Completion Tick : %.2f\n", sum.MeanCompletionTick)
	fmt.Fprintf(out, "Last Completion Tick : %d\n", sum.LastCompletionTick)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.in text format, or .yaml/.yml)")
	runCmd.Flags().StringVar(&policyName, "policy", "first-fit", "Scheduling policy (first-fit, heavy-lifting)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Solution output file (default stdout)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run config; explicit flags override its values")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&traceOutput, "trace-out", "", "Trace output file (zstd-compressed JSON lines)")
	runCmd.Flags().BoolVar(&printSummary, "summary", false, "Print run metrics after the solution")

	validateCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (.in text format, or .yaml/.yml)")
	validateCmd.Flags().StringVar(&configPath, "config", "", "YAML run config to check")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(traceSummaryCmd)
}
