package service

import (
	"regexp"
	"strings"
)

// infraVocabulary is the closed set of infrastructure terms recognized
// as keywords when they appear in project text.
var infraVocabulary = map[string]struct{}{
	"road": {}, "street": {}, "highway": {}, "bridge": {}, "culvert": {},
	"water": {}, "sewer": {}, "storm": {}, "drainage": {}, "sanitary": {},
	"reconstruction": {}, "rehabilitation": {}, "replacement": {}, "repair": {},
	"design": {}, "engineering": {}, "construction": {}, "planning": {},
	"transit": {}, "bus": {}, "rail": {}, "station": {},
	"facility": {}, "building": {}, "park": {}, "trail": {},
	"intersection": {}, "signal": {}, "traffic": {}, "sidewalk": {},
	"line": {}, "main": {}, "pipe": {}, "infrastructure": {},
}

var (
	lowerWordRe  = regexp.MustCompile(`\b[a-z]+\b`)
	properNounRe = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// keywordSet extracts matchable terms from free project text: vocabulary
// words found in the lowercased text, plus capitalized words from the
// original text (a cheap proper noun heuristic that picks up street and
// place names), lowercased.
func keywordSet(text string) map[string]struct{} {
	keywords := make(map[string]struct{})
	for _, w := range lowerWordRe.FindAllString(strings.ToLower(text), -1) {
		if _, ok := infraVocabulary[w]; ok {
			keywords[w] = struct{}{}
		}
	}
	for _, w := range properNounRe.FindAllString(text, -1) {
		keywords[strings.ToLower(w)] = struct{}{}
	}
	return keywords
}
