package formfield_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/formfield"
)

func TestCatalog(t *testing.T) {
	if diff := cmp.Diff([]string{"name", "phone"}, ids(formfield.ListBasePresets())); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"email", "address", "birthdate", "gender", "company", "memo"}, ids(formfield.ListOptionalPresets())); diff != "" {
		t.Error(diff)
	}

	for id, want := range map[string]bool{
		"name":     true,
		"phone":    true,
		"email":    true,
		"address":  false,
		"custom_1": false,
	} {
		if got := formfield.IsProtected(id); got != want {
			t.Errorf("%s: want %v got %v", id, want, got)
		}
	}

	presets := formfield.ListOptionalPresets()
	presets[0].Label = "changed"
	if formfield.ListOptionalPresets()[0].Label == "changed" {
		t.Error("presets must be copied")
	}
}

func TestCatalogOverrides(t *testing.T) {
	c := formfield.NewCatalog([]formfield.Field{
		{ID: formfield.IDName, Label: "성함"},
		{ID: formfield.IDCompany, Label: "소속", Placeholder: "소속을 입력해주세요"},
		{ID: formfield.IDGender, Options: []formfield.Option{{Value: "m", Label: "M"}, {Value: "f", Label: "F"}}},
	})

	name, _ := c.Preset(formfield.IDName)
	if name.Label != formfield.Name.Label {
		t.Error("base presets cannot be overridden")
	}
	company, _ := c.Preset(formfield.IDCompany)
	if company.Label != "소속" || company.Placeholder != "소속을 입력해주세요" {
		t.Errorf("override is ignored: %#v", company)
	}

	s := c.AddPreset(c.DefaultSchema(), formfield.IDGender)
	gender, _ := s.Find(formfield.IDGender)
	if diff := cmp.Diff([]string{"m", "f"}, optionValues(gender)); diff != "" {
		t.Error(diff)
	}

	if !formfield.DefaultCatalog.IsPreset(formfield.IDMemo) || formfield.DefaultCatalog.IsPreset("custom_1") {
		t.Error("IsPreset is wrong")
	}
}
