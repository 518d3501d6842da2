package errors

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHttpCode(t *testing.T) {
	for _, test := range []struct {
		err  error
		code int
	}{
		{ErrNotFound, http.StatusNotFound},
		{NewNotFound("tenant", "abc"), http.StatusNotFound},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrTenantMismatch, http.StatusForbidden},
		{ErrValidationError, http.StatusBadRequest},
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{Wrap(WithHTTPCode(New("x"), http.StatusTeapot), "wrap"), http.StatusTeapot},
		{WithKeyValue(WithHTTPCode(New("x"), http.StatusBadGateway), "tenant", "abc"), http.StatusBadGateway},
		{New("x"), http.StatusInternalServerError},
	} {
		if got := HttpCodeWith(test.err); got != test.code {
			t.Errorf("%v: want %d got %d", test.err, test.code, got)
		}
	}

	if code := GetHttpCode(New("x")); code != 0 {
		t.Errorf("want 0 got %d", code)
	}
	if code := HttpCodeWith(New("x"), http.StatusBadRequest); code != http.StatusBadRequest {
		t.Errorf("want 400 got %d", code)
	}
}

func TestToEncodeError(t *testing.T) {
	err := WithKeyValue(Wrap(ErrNotFound, "tenant 'abc' is not found"), "tenant", "abc")
	ee := ToEncodeError(err)
	if diff := cmp.Diff(&EncodeError{
		Code:    http.StatusNotFound,
		Message: "tenant 'abc' is not found: " + ErrNotFound.Error(),
		Fields:  map[string]interface{}{"tenant": "abc"},
	}, ee); diff != "" {
		t.Error(diff)
	}

	ve := NewValidationError("schema is invalid", []string{"a"})
	if ToEncodeError(ve) != ve {
		t.Error("EncodeError must be returned as is")
	}
}

func TestNewBadArgument(t *testing.T) {
	err := NewBadArgument(WithKeyValue(New("type is invalid"), "field", "custom_1"), "AddCustomField", "type", "color")
	if diff := cmp.Diff(&EncodeError{
		Code:    http.StatusBadRequest,
		Message: "invoke 'AddCustomField' fail, argument 'type' is invalid - 'color': type is invalid",
		Fields:  map[string]interface{}{"field": "custom_1"},
	}, err); diff != "" {
		t.Error(diff)
	}
}

func TestJoin(t *testing.T) {
	if Join(nil, nil) != nil {
		t.Error("want nil")
	}
	e := New("a")
	if Join(nil, e) != e {
		t.Error("want a")
	}
	if err := Join(e, New("b")); err == nil || err.Error() != "a\nb" {
		t.Errorf("want joined got %v", err)
	}
}
