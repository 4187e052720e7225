package capgains

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// EncodeSummary writes the realized gains as JSONL, one symbol per line in
// the order given.
func EncodeSummary(w io.Writer, gains []SymbolGain) error {
	bw := bufio.NewWriter(w)
	for _, g := range gains {
		line, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("cannot encode gain of %s: %w", g.Symbol, err)
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// DecodeSummary reads gains written by EncodeSummary.
func DecodeSummary(r io.Reader) ([]SymbolGain, error) {
	var gains []SymbolGain
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var g SymbolGain
		if err := json.Unmarshal(line, &g); err != nil {
			return nil, fmt.Errorf("could not decode gain %q: %w", string(line), err)
		}
		gains = append(gains, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return gains, nil
}
