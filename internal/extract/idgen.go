package extract

import "fmt"

// IDGen issues run-scoped sequential suggestion IDs. Each pipeline run
// owns its own generator, so concurrent runs cannot interfere and the
// IDs are deterministic given a fixed extractor order.
type IDGen struct {
	n int
}

// NewIDGen returns a fresh generator starting at sg-000.
func NewIDGen() *IDGen { return &IDGen{} }

// Next returns the next suggestion ID.
func (g *IDGen) Next() string {
	id := fmt.Sprintf("sg-%03d", g.n)
	g.n++
	return id
}
