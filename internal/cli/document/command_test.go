package document

import (
	"testing"

	"github.com/dquimper/rscribd/faults"
)

func TestParseDocumentID(t *testing.T) {
	t.Parallel()

	id, err := parseDocumentID("12345")
	if err != nil || id != 12345 {
		t.Fatalf("expected 12345, got %d (%v)", id, err)
	}

	for _, raw := range []string{"", "abc", "-3", "0", "1.5"} {
		if _, err := parseDocumentID(raw); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("expected %q to be rejected, got %v", raw, err)
		}
	}
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	assignments, err := parseAssignments([]string{
		"title=Final Report",
		"show_ads=false",
		"rev_id=42",
		"tags=a=b",
	})
	if err != nil {
		t.Fatalf("parse assignments: %v", err)
	}

	if assignments["title"] != "Final Report" {
		t.Fatalf("expected plain string, got %#v", assignments["title"])
	}
	if assignments["show_ads"] != false {
		t.Fatalf("expected coerced bool, got %#v", assignments["show_ads"])
	}
	if assignments["rev_id"] != int64(42) {
		t.Fatalf("expected coerced integer, got %#v", assignments["rev_id"])
	}
	if assignments["tags"] != "a=b" {
		t.Fatalf("only the first equals sign splits, got %#v", assignments["tags"])
	}
}

func TestParseAssignmentsRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"novalue", "=orphan", " =x"} {
		if _, err := parseAssignments([]string{raw}); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("expected %q to be rejected, got %v", raw, err)
		}
	}
}

func TestUploadConcurrency(t *testing.T) {
	t.Parallel()

	if got := uploadConcurrency(0, 10); got != defaultUploadConcurrency {
		t.Fatalf("expected the default limit, got %d", got)
	}
	if got := uploadConcurrency(8, 3); got != 3 {
		t.Fatalf("limit must not exceed the upload count, got %d", got)
	}
	if got := uploadConcurrency(-1, 0); got != 1 {
		t.Fatalf("limit must stay positive, got %d", got)
	}
}
