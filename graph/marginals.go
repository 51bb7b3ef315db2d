package graph

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Marginals are pointwise means with lower and upper bounds, the shape
// consumed by plotting front ends.
type Marginals struct {
	Mean  []float64 `msgpack:"mean"`
	Lower []float64 `msgpack:"lower"`
	Upper []float64 `msgpack:"upper"`
}

func (m *Marginals) Len() int {
	return len(m.Mean)
}

// Encode writes m to w in msgpack format.
func (m *Marginals) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(m); err != nil {
		return fmt.Errorf("graph: encode marginals: %w", err)
	}
	return nil
}

// DecodeMarginals reads marginals written by Encode.
func DecodeMarginals(r io.Reader) (*Marginals, error) {
	var m Marginals
	if err := msgpack.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("graph: decode marginals: %w", err)
	}
	if len(m.Lower) != len(m.Mean) || len(m.Upper) != len(m.Mean) {
		return nil, fmt.Errorf("graph: decode marginals: %d means, %d lower and %d upper bounds", len(m.Mean), len(m.Lower), len(m.Upper))
	}
	return &m, nil
}
