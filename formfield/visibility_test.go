package formfield_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/formfield"
)

func TestVisible(t *testing.T) {
	s, custom := genderSchema(t)

	for _, test := range []struct {
		values formfield.Values
		want   []string
	}{
		{nil, []string{"name", "phone", "gender"}},
		{formfield.Values{"gender": "female"}, []string{"name", "phone", "gender"}},
		{formfield.Values{"gender": "male"}, []string{"name", "phone", "gender", custom}},
	} {
		if diff := cmp.Diff(test.want, formfield.VisibleIDs(s, test.values)); diff != "" {
			t.Errorf("%v: %s", test.values, diff)
		}
	}

	// 切换回来时字段又被隐藏
	if formfield.IsVisible(s, formfield.Values{"gender": "female", custom: "yes"}, custom) {
		t.Error("want hidden")
	}
}

func TestVisibleMultiValue(t *testing.T) {
	fixedIDs(t)
	s := formfield.DefaultSchema()
	s, plan := formfield.AddCustomField(s, formfield.Field{
		Type:    formfield.TypeSelect,
		Label:   "상품",
		Options: []formfield.Option{{Value: "basic"}, {Value: "pro"}, {Value: "enterprise"}},
	})
	s, seats := formfield.AddCustomField(s, formfield.Field{
		Type:      formfield.TypeNumber,
		Label:     "인원",
		Condition: &formfield.Condition{DependsOn: plan, ShowWhen: formfield.OneOf("pro", "enterprise")},
	})

	for value, want := range map[string]bool{
		"":           false,
		"basic":      false,
		"pro":        true,
		"enterprise": true,
	} {
		if got := formfield.IsVisible(s, formfield.Values{plan: value}, seats); got != want {
			t.Errorf("%q: want %v got %v", value, want, got)
		}
	}
}

func TestVisibleDisabledDependency(t *testing.T) {
	s, custom := genderSchema(t)
	s = formfield.ToggleEnabled(s, formfield.IDGender)

	if formfield.IsVisible(s, formfield.Values{"gender": "male"}, custom) {
		t.Error("dependency is disabled, want hidden")
	}
	if diff := cmp.Diff([]string{"name", "phone"}, formfield.VisibleIDs(s, formfield.Values{"gender": "male"})); diff != "" {
		t.Error(diff)
	}
}

func TestVisibleChained(t *testing.T) {
	radio := func(id string, cond *formfield.Condition, order int) formfield.Field {
		return formfield.Field{
			ID:        id,
			Type:      formfield.TypeRadio,
			Label:     id,
			Enabled:   true,
			Order:     order,
			Options:   []formfield.Option{{Value: "y"}, {Value: "n"}},
			Condition: cond,
		}
	}
	s := formfield.Schema{
		radio("a", nil, 0),
		radio("b", &formfield.Condition{DependsOn: "a", ShowWhen: formfield.Equals("y")}, 1),
		radio("c", &formfield.Condition{DependsOn: "b", ShowWhen: formfield.Equals("y")}, 2),
	}

	values := formfield.Values{"a": "y", "b": "y"}
	if diff := cmp.Diff([]string{"a", "b", "c"}, formfield.VisibleIDs(s, values)); diff != "" {
		t.Error(diff)
	}

	// b 被隐藏后，它残留的值不再影响 c
	values["a"] = "n"
	if diff := cmp.Diff([]string{"a"}, formfield.VisibleIDs(s, values)); diff != "" {
		t.Error(diff)
	}
}

func TestVisibleCycle(t *testing.T) {
	s := formfield.Schema{
		{ID: "a", Type: formfield.TypeRadio, Label: "a", Enabled: true, Order: 0,
			Options:   []formfield.Option{{Value: "y"}},
			Condition: &formfield.Condition{DependsOn: "b", ShowWhen: formfield.Equals("y")}},
		{ID: "b", Type: formfield.TypeRadio, Label: "b", Enabled: true, Order: 1,
			Options:   []formfield.Option{{Value: "y"}},
			Condition: &formfield.Condition{DependsOn: "a", ShowWhen: formfield.Equals("y")}},
		{ID: "c", Type: formfield.TypeText, Label: "c", Enabled: true, Order: 2},
	}

	got := formfield.VisibleIDs(s, formfield.Values{"a": "y", "b": "y"})
	if diff := cmp.Diff([]string{"c"}, got); diff != "" {
		t.Error(diff)
	}
}

func TestVisibleStableOrder(t *testing.T) {
	s := formfield.Schema{
		{ID: "x", Type: formfield.TypeText, Label: "x", Enabled: true, Order: 1},
		{ID: "y", Type: formfield.TypeText, Label: "y", Enabled: true, Order: 0},
		{ID: "z", Type: formfield.TypeText, Label: "z", Enabled: true, Order: 1},
		{ID: "w", Type: formfield.TypeText, Label: "w", Enabled: false, Order: 0},
	}
	if diff := cmp.Diff([]string{"y", "x", "z"}, formfield.VisibleIDs(s, nil)); diff != "" {
		t.Error(diff)
	}
}
