package filter

// Attribute names one filterable dimension of a posting.
type Attribute string

const (
	Industry      Attribute = "industry"
	Area          Attribute = "area" // functional area, matched against the fine subarea field
	Role          Attribute = "role"
	Seniority     Attribute = "seniority"
	Modality      Attribute = "modality"
	Location      Attribute = "location"
	Accessibility Attribute = "accessibility"
	Transport     Attribute = "transport"
)

// unlistedPriority is used for attributes outside the known set.
const unlistedPriority = 9

var priorities = map[Attribute]int{
	Transport:     1,
	Accessibility: 1,
	Location:      2,
	Seniority:     3,
	Modality:      4,
	Role:          5,
	Industry:      6,
	Area:          7,
}

// Known reports whether the attribute takes part in matching.
func (a Attribute) Known() bool {
	_, ok := priorities[a]
	return ok
}

// Priority orders relaxation: lower numbers are dropped first.
func (a Attribute) Priority() int {
	if p, ok := priorities[a]; ok {
		return p
	}
	return unlistedPriority
}

// Critical attributes carry the user's core intent and are relaxed last.
func (a Attribute) Critical() bool {
	return a == Industry || a == Area
}

// Boolean attributes take BoolValue values; every other known attribute
// takes StringValue values.
func (a Attribute) Boolean() bool {
	return a == Accessibility || a == Transport
}
