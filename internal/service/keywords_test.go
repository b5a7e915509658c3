package service

import (
	"strings"
	"testing"
)

func TestKeywordSetVocabularyTerms(t *testing.T) {
	got := keywordSet("road reconstruction with sewer and water main replacement")

	for _, want := range []string{"road", "reconstruction", "sewer", "water", "main", "replacement"} {
		if _, ok := got[want]; !ok {
			t.Errorf("keywordSet missing vocabulary term %q", want)
		}
	}
	if _, ok := got["with"]; ok {
		t.Error("keywordSet included non-vocabulary word \"with\"")
	}
}

func TestKeywordSetProperNouns(t *testing.T) {
	got := keywordSet("Emergency repairs near Woolwich at the Speed River crossing")

	for _, want := range []string{"woolwich", "speed", "river", "emergency"} {
		if _, ok := got[want]; !ok {
			t.Errorf("keywordSet missing proper noun %q", want)
		}
	}
	// "crossing" is neither vocabulary nor capitalized.
	if _, ok := got["crossing"]; ok {
		t.Error("keywordSet included plain word \"crossing\"")
	}
}

func TestKeywordSetVocabularyAtSentenceStart(t *testing.T) {
	got := keywordSet("Water main replacement on Elm")
	if _, ok := got["water"]; !ok {
		t.Error("capitalized vocabulary word was not recognized")
	}
}

func TestKeywordSetIsSubsetOfVocabularyAndCapitalized(t *testing.T) {
	texts := []string{
		"Main Street Reconstruction",
		"Replacement of the Hanlon Parkway interchange and storm sewers",
		"nothing relevant here at all",
		"",
	}
	for _, text := range texts {
		capitalized := make(map[string]struct{})
		for _, w := range properNounRe.FindAllString(text, -1) {
			capitalized[strings.ToLower(w)] = struct{}{}
		}
		for kw := range keywordSet(text) {
			_, inVocab := infraVocabulary[kw]
			_, inCap := capitalized[kw]
			if !inVocab && !inCap {
				t.Errorf("keyword %q from %q is neither vocabulary nor capitalized", kw, text)
			}
		}
	}
}

func TestKeywordSetEmpty(t *testing.T) {
	if got := keywordSet(""); len(got) != 0 {
		t.Errorf("keywordSet(\"\") = %v, want empty", got)
	}
}
