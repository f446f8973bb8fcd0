package errs

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", Invalid("usn is required"), http.StatusBadRequest},
		{"patient not found", ErrPatientNotFound, http.StatusNotFound},
		{"lab test not found", ErrTestNotFound, http.StatusNotFound},
		{"record not found", ErrNotFound, http.StatusNotFound},
		{"duplicate identifier", ErrDuplicateIdentifier, http.StatusConflict},
		{"store failure", Store(errors.New("connection refused")), http.StatusServiceUnavailable},
		{"wrapped sentinel", errors.Join(errors.New("context"), ErrPatientNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestStore_KeepsSentinel(t *testing.T) {
	err := Store(errors.New("connection refused"))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestInvalid_CarriesDetail(t *testing.T) {
	err := Invalid("age must be a non-negative integer")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err.Error() != "invalid input: age must be a non-negative integer" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
