package features

// Entry is one (feature name, value) pair. Values stay loosely typed until
// the classifier boundary: numeric columns carry float64, categorical columns
// may carry strings, and absent passthrough columns carry nil.
type Entry struct {
	Name  string
	Value interface{}
}

// Vector is a single-row feature vector in schema column order. The backing
// classifiers consume it positionally, so order is part of the contract.
type Vector struct {
	entries []Entry
}

func NewVector(entries []Entry) Vector {
	return Vector{entries: entries}
}

func (v Vector) Len() int {
	return len(v.entries)
}

// Entries exposes the ordered pairs for positional consumption.
func (v Vector) Entries() []Entry {
	return v.entries
}

func (v Vector) Names() []string {
	names := make([]string, len(v.entries))
	for i, e := range v.entries {
		names[i] = e.Name
	}
	return names
}

// Get looks a value up by name. Intended for inspection and tests; scoring
// paths iterate Entries in order instead.
func (v Vector) Get(name string) (interface{}, bool) {
	for _, e := range v.entries {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}
