package testutil

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewTestRequest(t *testing.T) {
	req := NewTestRequest(http.MethodGet, "/api/ranges?customer_id=1")
	if req.Method != http.MethodGet {
		t.Errorf("method = %q, want GET", req.Method)
	}
	if req.URL.Path != "/api/ranges" {
		t.Errorf("path = %q, want /api/ranges", req.URL.Path)
	}
	if req.URL.Query().Get("customer_id") != "1" {
		t.Errorf("customer_id = %q, want 1", req.URL.Query().Get("customer_id"))
	}
}

func TestNewTestRecorder(t *testing.T) {
	rec := NewTestRecorder()
	rec.WriteHeader(http.StatusTeapot)
	AssertStatusCode(t, rec.Code, http.StatusTeapot)
}

func TestAssertHelpers(t *testing.T) {
	AssertNoError(t, nil)

	// AssertError must not fail for a real error.
	AssertError(t, errors.New("boom"))
}
