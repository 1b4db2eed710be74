package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	if got := MakeUpperCaseWithUnderscores("Bad Gateway"); got != "BAD_GATEWAY" {
		t.Fatalf("unexpected code %q", got)
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err    *HTTPError
		status int
		code   string
	}{
		{NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{NewNotFoundError("Route not found", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{NewBadGatewayError("HUB_UNAVAILABLE", "hub down"), http.StatusBadGateway, "HUB_UNAVAILABLE"},
		{NewBadGatewayError("", "hub down"), http.StatusBadGateway, "BAD_GATEWAY"},
		{NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tc := range cases {
		if tc.err.Status != tc.status || tc.err.Code != tc.code {
			t.Fatalf("expected %d/%s, got %d/%s", tc.status, tc.code, tc.err.Status, tc.err.Code)
		}
	}

	code := "GENE_INVALID"
	if err := NewBadRequestError("bad", true, &code, nil, nil); err.Code != code || !err.Override {
		t.Fatalf("custom code not applied: %+v", err)
	}
}

func TestHTTPErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewBadGatewayError("HUB_UNAVAILABLE", "hub down"))
	if !errors.Is(wrapped, &HTTPError{}) {
		t.Fatal("expected wrapped HTTPError to match")
	}

	var httpErr *HTTPError
	if !errors.As(wrapped, &httpErr) || httpErr.Status != http.StatusBadGateway {
		t.Fatalf("unexpected unwrap result %+v", httpErr)
	}
}

func TestWithMessage(t *testing.T) {
	base := NewBadRequestError("original", false, nil, []FieldError{{Field: "gene", Error: "is required"}}, nil)
	copied := base.WithMessage("changed")
	if base.Message != "original" || copied.Message != "changed" {
		t.Fatal("WithMessage must not mutate the receiver")
	}
	if len(copied.Errors) != 1 || copied.Status != http.StatusBadRequest {
		t.Fatalf("fields not copied: %+v", copied)
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("orient is invalid"))
	if err.Status != http.StatusBadRequest || err.Message != "Validation failed: orient is invalid" {
		t.Fatalf("unexpected validation error %+v", err)
	}
}
