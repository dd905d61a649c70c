package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus_AllKinds(t *testing.T) {
	want := map[Kind]int{
		KindDecode:    http.StatusBadRequest,
		KindMethod:    http.StatusMethodNotAllowed,
		KindEvent:     http.StatusBadRequest,
		KindSignature: http.StatusBadRequest,
		KindConfig:    http.StatusBadRequest,
		KindRemote:    http.StatusBadRequest,
		KindInternal:  http.StatusInternalServerError,
	}

	// Every declared kind must have an expected status; a new kind added
	// without updating this table fails here.
	if len(want) != len(Kinds) {
		t.Fatalf("status table covers %d kinds, want %d", len(want), len(Kinds))
	}

	for _, k := range Kinds {
		got := New(k, "x").HTTPStatus()
		if got != want[k] {
			t.Errorf("HTTPStatus(%s) = %d, want %d", k, got, want[k])
		}
	}
}

func TestPublic_InternalIsOpaque(t *testing.T) {
	f := Wrap(KindInternal, "nil pointer in processor", errors.New("boom"))
	body := f.Public()

	if body["error"] != "internal server error" {
		t.Errorf("internal body = %v, want opaque marker", body)
	}
	if _, ok := body["details"]; ok {
		t.Error("internal body must not carry details")
	}
}

func TestPublic_DetailsIncluded(t *testing.T) {
	f := New(KindEvent, "invalid GitHub event type").
		With("expected", "pull_request").
		With("received", "push")

	body := f.Public()
	if body["error"] != "invalid GitHub event type" {
		t.Errorf("error = %v", body["error"])
	}
	details, ok := body["details"].(map[string]any)
	if !ok {
		t.Fatalf("details missing: %v", body)
	}
	if details["received"] != "push" {
		t.Errorf("details[received] = %v, want push", details["received"])
	}
}

func TestFrom_PreservesFault(t *testing.T) {
	orig := New(KindRemote, "query failed")
	wrapped := fmt.Errorf("processing GEN-12: %w", orig)

	got := From(wrapped)
	if got != orig {
		t.Errorf("From() = %v, want original fault", got)
	}
}

func TestFrom_ClassifiesDefect(t *testing.T) {
	got := From(errors.New("index out of range"))
	if got.Kind != KindInternal {
		t.Errorf("Kind = %v, want KindInternal", got.Kind)
	}
	if got.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", got.HTTPStatus())
	}
}

func TestKindString_NoCollisions(t *testing.T) {
	seen := map[string]Kind{}
	for _, k := range Kinds {
		name := k.String()
		if prev, dup := seen[name]; dup {
			t.Errorf("kinds %v and %v share name %q", prev, k, name)
		}
		seen[name] = k
	}
}
