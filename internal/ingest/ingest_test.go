package ingest

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pursuitworks/pursuit/internal/domain"
)

var markerRe = regexp.MustCompile(`--- PAGE (\d+) ---`)

func TestJoinPages_MarkersInOrder(t *testing.T) {
	pages := []string{"first page text", "second page text", "third page text"}
	text := joinPages(pages)

	matches := markerRe.FindAllStringSubmatch(text, -1)
	if len(matches) != len(pages) {
		t.Fatalf("expected %d page markers, got %d", len(pages), len(matches))
	}
	for i, m := range matches {
		n, _ := strconv.Atoi(m[1])
		if n != i+1 {
			t.Fatalf("marker %d has page number %d", i, n)
		}
	}
}

func TestJoinPages_PreservesPageText(t *testing.T) {
	pages := []string{"alpha", "beta"}
	text := joinPages(pages)

	alphaIdx := strings.Index(text, "alpha")
	betaIdx := strings.Index(text, "beta")
	if alphaIdx < 0 || betaIdx < 0 {
		t.Fatal("page text missing from output")
	}
	if alphaIdx > betaIdx {
		t.Fatal("page text out of order")
	}
	if !strings.Contains(text[:alphaIdx], "--- PAGE 1 ---") {
		t.Fatal("page 1 marker does not precede page 1 text")
	}
}

func TestJoinPages_ManyPages(t *testing.T) {
	pages := make([]string, 40)
	for i := range pages {
		pages[i] = fmt.Sprintf("content %d", i+1)
	}
	text := joinPages(pages)

	if got := len(markerRe.FindAllString(text, -1)); got != 40 {
		t.Fatalf("expected 40 markers, got %d", got)
	}
	// Markers must be strictly increasing from 1.
	prev := 0
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		n, _ := strconv.Atoi(m[1])
		if n != prev+1 {
			t.Fatalf("marker sequence broke at %d (prev %d)", n, prev)
		}
		prev = n
	}
}

func TestJoinPages_Empty(t *testing.T) {
	if got := joinPages(nil); got != "" {
		t.Fatalf("expected empty string for no pages, got %q", got)
	}
}

func TestExtractText_CorruptDocument(t *testing.T) {
	in := NewIngestor(zap.NewNop())

	res, err := in.ExtractText([]byte("this is not a pdf"))
	if err == nil {
		t.Fatal("expected error for corrupt document")
	}
	if res != nil {
		t.Fatal("expected no partial result on failure")
	}

	var ingErr *domain.IngestionError
	if !errors.As(err, &ingErr) {
		t.Fatalf("expected *domain.IngestionError, got %T", err)
	}
	if ingErr.Unwrap() == nil {
		t.Fatal("expected underlying diagnostic to be preserved")
	}
}
