package filter

import "jobmatch-engine/internal/textutil"

// Vocabulary holds the fine functional-area values present in the catalog.
// Area matching uses it to prefer exact hits over substring hits. Build it
// once per search from the catalog snapshot being searched.
type Vocabulary struct {
	subareas map[string]struct{}
}

func NewVocabulary(subareas []string) Vocabulary {
	v := Vocabulary{subareas: make(map[string]struct{}, len(subareas))}
	for _, s := range subareas {
		if k := textutil.Fold(s); k != "" {
			v.subareas[k] = struct{}{}
		}
	}
	return v
}

// HasSubarea reports whether some posting carries exactly this subarea.
func (v Vocabulary) HasSubarea(s string) bool {
	_, ok := v.subareas[textutil.Fold(s)]
	return ok
}
