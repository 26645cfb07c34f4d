package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// header is the first JSONL line of a trace file.
type header struct {
	Type   string `json:"type"`
	RunID  string `json:"run_id"`
	Level  string `json:"level"`
	Policy string `json:"policy,omitempty"`
}

// line is every other JSONL line: exactly one of the records is set.
type line struct {
	Type       string            `json:"type"`
	Command    *CommandRecord    `json:"command,omitempty"`
	Completion *CompletionRecord `json:"completion,omitempty"`
}

// WriteJSONLZstd writes st as zstd-compressed JSONL: a header line, then the
// command records, then the completion records.
func WriteJSONLZstd(w io.Writer, st *SimulationTrace) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(bw)

	if err := je.Encode(header{Type: "header", RunID: st.RunID, Level: string(st.Config.Level), Policy: st.Config.Policy}); err != nil {
		_ = enc.Close()
		return err
	}
	for i := range st.Commands {
		if err := je.Encode(line{Type: "command", Command: &st.Commands[i]}); err != nil {
			_ = enc.Close()
			return err
		}
	}
	for i := range st.Completions {
		if err := je.Encode(line{Type: "completion", Completion: &st.Completions[i]}); err != nil {
			_ = enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// WriteFile writes st to path with WriteJSONLZstd.
func WriteFile(path string, st *SimulationTrace) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace file: %w", err)
	}
	if err := WriteJSONLZstd(f, st); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing trace file: %w", err)
	}
	return f.Close()
}

// ReadJSONLZstd decodes a trace written by WriteJSONLZstd.
func ReadJSONLZstd(r io.Reader) (*SimulationTrace, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	jd := json.NewDecoder(dec)
	var h header
	if err := jd.Decode(&h); err != nil {
		return nil, fmt.Errorf("reading trace header: %w", err)
	}
	if h.Type != "header" {
		return nil, fmt.Errorf("reading trace header: unexpected record type %q", h.Type)
	}
	st := &SimulationTrace{
		RunID:       h.RunID,
		Config:      TraceConfig{Level: TraceLevel(h.Level), Policy: h.Policy},
		Commands:    make([]CommandRecord, 0),
		Completions: make([]CompletionRecord, 0),
	}
	for {
		var l line
		if err := jd.Decode(&l); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("reading trace record: %w", err)
		}
		switch {
		case l.Command != nil:
			st.Commands = append(st.Commands, *l.Command)
		case l.Completion != nil:
			st.Completions = append(st.Completions, *l.Completion)
		default:
			return nil, fmt.Errorf("reading trace record: unexpected record type %q", l.Type)
		}
	}
	return st, nil
}

// ReadFile reads a trace file written by WriteFile.
func ReadFile(path string) (*SimulationTrace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file: %w", err)
	}
	defer f.Close()
	return ReadJSONLZstd(f)
}
