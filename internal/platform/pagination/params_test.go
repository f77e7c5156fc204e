package pagination

import (
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	params, err := Parse(url.Values{}, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Page != 1 || params.Limit != DefaultLimit {
		t.Fatalf("unexpected defaults %#v", params)
	}
	if params.Offset() != 0 {
		t.Fatalf("expected zero offset, got %d", params.Offset())
	}
}

func TestParseExplicitValues(t *testing.T) {
	params, err := Parse(url.Values{"page": {"3"}, "limit": {"25"}}, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Page != 3 || params.Limit != 25 {
		t.Fatalf("unexpected params %#v", params)
	}
	if params.Offset() != 50 {
		t.Fatalf("expected offset 50, got %d", params.Offset())
	}
}

func TestParseCapsLimit(t *testing.T) {
	params, err := Parse(url.Values{"limit": {"500"}}, Options{MaxLimit: 100})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Limit != 100 {
		t.Fatalf("expected capped limit 100, got %d", params.Limit)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := []url.Values{
		{"page": {"0"}},
		{"page": {"-2"}},
		{"page": {"abc"}},
		{"limit": {"0"}},
		{"limit": {"x"}},
	}
	for _, values := range cases {
		if _, err := Parse(values, Options{}); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}
}

func TestFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/orders?page=2&limit=5", nil)
	params, err := FromRequest(req, Options{DefaultLimit: 10})
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if params.Page != 2 || params.Limit != 5 {
		t.Fatalf("unexpected params %#v", params)
	}
}

func TestWriteTotalCount(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteTotalCount(rec, 42)
	if got := rec.Header().Get(TotalCountHeader); got != "42" {
		t.Fatalf("expected header 42, got %q", got)
	}
}
