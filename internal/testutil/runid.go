package testutil

// DefaultRunID is used by FixedRunID when no id is configured.
const DefaultRunID = "test-run-default"

// FixedRunID hands out the same run id on every call, so repeated runs of a
// scenario produce byte-identical records.
type FixedRunID struct {
	id string
}

// NewFixedRunID returns a generator for id, or DefaultRunID when id is empty.
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed id.
func (g *FixedRunID) Generate() string {
	return g.id
}
