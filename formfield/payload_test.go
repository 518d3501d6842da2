package formfield_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/formfield"
)

func TestMultiEncoding(t *testing.T) {
	for _, values := range [][]string{
		nil,
		{"a"},
		{"a", "b", "c"},
		{"서울", "부산"},
	} {
		encoded := formfield.EncodeMulti(values)
		if diff := cmp.Diff(values, formfield.DecodeMulti(encoded)); diff != "" {
			t.Errorf("%v: %s", values, diff)
		}
		if again := formfield.EncodeMulti(formfield.DecodeMulti(encoded)); again != encoded {
			t.Errorf("want %q got %q", encoded, again)
		}
	}

	if got := formfield.EncodeMulti([]string{" a ", "", "b"}); got != "a,b" {
		t.Errorf("want a,b got %q", got)
	}
	if got := formfield.DecodeMulti(",a,, b ,"); !cmp.Equal(got, []string{"a", "b"}) {
		t.Errorf("want [a b] got %q", got)
	}
}

func TestBuildPayload(t *testing.T) {
	s, custom := genderSchema(t)
	s, agree := formfield.AddCustomField(s, formfield.Field{
		Type:    formfield.TypeCheckbox,
		Label:   "수신 동의",
		Options: []formfield.Option{{Value: "sms"}, {Value: "email"}},
	})

	values := formfield.Values{
		"name":   " 홍길동 ",
		"phone":  "01012345678",
		"gender": "female",
		custom:   "stale value",
		agree:    "sms,,email,",
		"extra":  "ignored",
	}
	payload := formfield.BuildPayload(s, values)
	if diff := cmp.Diff(map[string]string{
		"name":   "홍길동",
		"phone":  "010-1234-5678",
		"gender": "female",
		agree:    "sms,email",
	}, payload); diff != "" {
		t.Error(diff)
	}

	values["gender"] = "male"
	payload = formfield.BuildPayload(s, values)
	if payload[custom] != "stale value" {
		t.Errorf("visible field must be submitted, got %#v", payload)
	}
}
