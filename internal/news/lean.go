package news

import "strings"

// sourceLeans maps well-known news API source ids to their political lean.
var sourceLeans = map[string]Lean{
	"cnn":                       LeanLeft,
	"msnbc":                     LeanLeft,
	"the-huffington-post":       LeanLeft,
	"buzzfeed":                  LeanLeft,
	"vice-news":                 LeanLeft,
	"bbc-news":                  LeanCenter,
	"reuters":                   LeanCenter,
	"associated-press":          LeanCenter,
	"axios":                     LeanCenter,
	"usa-today":                 LeanCenter,
	"fox-news":                  LeanRight,
	"breitbart-news":            LeanRight,
	"the-american-conservative": LeanRight,
	"national-review":           LeanRight,
	"the-washington-times":      LeanRight,
}

// leanHints are substring heuristics for sources missing from the table.
var leanHints = []struct {
	substr string
	lean   Lean
}{
	{"progressive", LeanLeft},
	{"liberal", LeanLeft},
	{"conservative", LeanRight},
	{"patriot", LeanRight},
}

// LeanFor returns the political lean for a source id. Unknown sources fall
// back to name heuristics and default to center.
func LeanFor(sourceID string) Lean {
	if lean, ok := sourceLeans[sourceID]; ok {
		return lean
	}
	id := strings.ToLower(sourceID)
	for _, h := range leanHints {
		if strings.Contains(id, h.substr) {
			return h.lean
		}
	}
	return LeanCenter
}

// KnownSource reports whether the source id appears in the classification table.
func KnownSource(sourceID string) bool {
	_, ok := sourceLeans[sourceID]
	return ok
}
