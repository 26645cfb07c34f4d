// Package scenario loads delivery scenarios into sim.WorldConfig values.
//
// Two formats are accepted: the line-oriented text format of the
// delivery challenge, and a YAML rendering of sim.WorldConfig.
package scenario

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/delivery-sim/delivery-sim/sim"
)

// Load reads the scenario at path. Files ending in .yaml or .yml are decoded
// as YAML; anything else is parsed as the text format.
func Load(path string) (*sim.WorldConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return Parse(f)
	}
}

// ParseYAML decodes a YAML scenario.
func ParseYAML(r io.Reader) (*sim.WorldConfig, error) {
	var cfg sim.WorldConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &cfg, nil
}

// Parse reads the text format:
//
//	rows columns drones deadline maxLoad
//	productCount
//	weight...
//	warehouseCount
//	row column      } per warehouse
//	stock...        }
//	orderCount
//	row column      } per order
//	itemCount       }
//	productId...    }
func Parse(r io.Reader) (*sim.WorldConfig, error) {
	lr := newLineReader(r)

	header, err := lr.ints(5)
	if err != nil {
		return nil, err
	}
	cfg := &sim.WorldConfig{
		Rows:         header[0],
		Columns:      header[1],
		Drones:       header[2],
		Deadline:     header[3],
		MaxDroneLoad: header[4],
	}

	productCount, err := lr.count()
	if err != nil {
		return nil, err
	}
	if cfg.ProductWeights, err = lr.ints(productCount); err != nil {
		return nil, err
	}

	warehouseCount, err := lr.count()
	if err != nil {
		return nil, err
	}
	for i := 0; i < warehouseCount; i++ {
		coords, err := lr.ints(2)
		if err != nil {
			return nil, err
		}
		stock, err := lr.ints(productCount)
		if err != nil {
			return nil, err
		}
		cfg.Warehouses = append(cfg.Warehouses, sim.WarehouseConfig{Row: coords[0], Column: coords[1], Stock: stock})
	}

	orderCount, err := lr.count()
	if err != nil {
		return nil, err
	}
	for i := 0; i < orderCount; i++ {
		coords, err := lr.ints(2)
		if err != nil {
			return nil, err
		}
		itemCount, err := lr.count()
		if err != nil {
			return nil, err
		}
		items, err := lr.ints(itemCount)
		if err != nil {
			return nil, err
		}
		cfg.Orders = append(cfg.Orders, sim.OrderConfig{Row: coords[0], Column: coords[1], Items: items})
	}
	return cfg, nil
}

// lineReader yields whitespace-separated integer lines and remembers the
// line number for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

// ints reads the next line and requires exactly n integers on it. An empty
// line is accepted for n == 0.
func (lr *lineReader) ints(n int) ([]int, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return nil, fmt.Errorf("parsing scenario: line %d: %w", lr.line+1, err)
		}
		if n == 0 {
			return []int{}, nil
		}
		return nil, fmt.Errorf("parsing scenario: line %d: unexpected end of input, want %d values", lr.line+1, n)
	}
	lr.line++
	fields := strings.Fields(lr.sc.Text())
	if len(fields) != n {
		return nil, fmt.Errorf("parsing scenario: line %d: want %d values, got %d", lr.line, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parsing scenario: line %d: value %d: %w", lr.line, i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

func (lr *lineReader) count() (int, error) {
	v, err := lr.ints(1)
	if err != nil {
		return 0, err
	}
	if v[0] < 0 {
		return 0, fmt.Errorf("parsing scenario: line %d: negative count %d", lr.line, v[0])
	}
	return v[0], nil
}

// Stats are scenario totals used for quick feasibility checks.
type Stats struct {
	Products    int
	Warehouses  int
	Orders      int
	Drones      int
	TotalItems  int
	TotalStock  int
	TotalWeight int
	// Shortfall maps product id -> demand exceeding total stock.
	Shortfall map[int]int
}

// Summarize computes totals for cfg. cfg must have passed Validate.
func Summarize(cfg *sim.WorldConfig) Stats {
	st := Stats{
		Products:   len(cfg.ProductWeights),
		Warehouses: len(cfg.Warehouses),
		Orders:     len(cfg.Orders),
		Drones:     cfg.Drones,
		Shortfall:  make(map[int]int),
	}
	stock := make([]int, len(cfg.ProductWeights))
	for _, wh := range cfg.Warehouses {
		for p, qty := range wh.Stock {
			stock[p] += qty
			st.TotalStock += qty
		}
	}
	demand := make([]int, len(cfg.ProductWeights))
	for _, o := range cfg.Orders {
		for _, p := range o.Items {
			demand[p]++
			st.TotalItems++
			st.TotalWeight += cfg.ProductWeights[p]
		}
	}
	for p := range demand {
		if demand[p] > stock[p] {
			st.Shortfall[p] = demand[p] - stock[p]
		}
	}
	return st
}
