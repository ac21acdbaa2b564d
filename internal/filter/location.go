package filter

import (
	"strings"

	"jobmatch-engine/internal/textutil"
)

var locationStopwords = map[string]bool{
	"de": true, "del": true, "la": true, "las": true, "el": true, "los": true,
	"y": true, "e": true, "en": true, "a": true,
	"region": true, "comuna": true, "provincia": true, "ciudad": true,
}

// Scrapers sometimes capture consent banners instead of the location.
var invalidLocationMarkers = []string{
	"cookie",
	"consentimiento",
	"aceptar todas",
	"acepto",
	"politica de privacidad",
	"utilizamos",
	"javascript",
}

// locationKeywords splits a requested location into the words that must all
// appear in a posting's location. A value made only of stopwords falls back
// to its full folded text.
func locationKeywords(value string) []string {
	var out []string
	for _, w := range textutil.Words(value) {
		if !locationStopwords[w] {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		if f := textutil.Fold(value); f != "" {
			out = []string{f}
		}
	}
	return out
}

// invalidLocation reports whether a posting's location text is unusable.
// Empty text counts as unusable.
func invalidLocation(loc string) bool {
	f := textutil.Fold(loc)
	if f == "" {
		return true
	}
	for _, m := range invalidLocationMarkers {
		if strings.Contains(f, m) {
			return true
		}
	}
	return false
}

func isRemote(modality string) bool {
	switch textutil.Fold(modality) {
	case "remoto", "remote", "teletrabajo":
		return true
	}
	return false
}
