package formfield_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/formfield"
)

func TestRender(t *testing.T) {
	s, custom := genderSchema(t)

	state := formfield.Render(s, formfield.Values{"name": "홍길동", "phone": "010-12"})
	if state.CanSubmit {
		t.Error("want disabled submit")
	}
	var problems = map[string]formfield.Problem{}
	for _, f := range state.Fields {
		problems[f.Field.ID] = f.Problem
		if f.Valid != (f.Problem == formfield.ProblemNone) {
			t.Errorf("%s: valid and problem disagree", f.Field.ID)
		}
	}
	if diff := cmp.Diff(map[string]formfield.Problem{
		"name":   formfield.ProblemNone,
		"phone":  formfield.ProblemPhone,
		"gender": formfield.ProblemNone,
	}, problems); diff != "" {
		t.Error(diff)
	}

	state = formfield.Render(s, formfield.Values{"name": "홍길동", "phone": "010-1234-5678", "gender": "male"})
	if !state.CanSubmit {
		t.Errorf("want enabled submit got %#v", state)
	}
	if len(state.Fields) != 4 || state.Fields[3].Field.ID != custom {
		t.Errorf("want 4 fields got %#v", state.Fields)
	}
}

func TestEditorView(t *testing.T) {
	s, custom := genderSchema(t)
	s = formfield.AddPreset(s, formfield.IDEmail)
	s = formfield.AddPreset(s, formfield.IDMemo)
	s = formfield.DeleteField(s, formfield.IDMemo)

	editor := formfield.EditorView(s, nil)

	type flags struct {
		ID                string
		Enabled           bool
		Protected         bool
		CanDelete         bool
		CanToggleEnabled  bool
		CanToggleRequired bool
		CanEditType       bool
		DeleteDisables    bool
	}
	var rows []flags
	for _, row := range editor.Rows {
		rows = append(rows, flags{
			ID:                row.Field.ID,
			Enabled:           row.Field.Enabled,
			Protected:         row.Protected,
			CanDelete:         row.CanDelete,
			CanToggleEnabled:  row.CanToggleEnabled,
			CanToggleRequired: row.CanToggleRequired,
			CanEditType:       row.CanEditType,
			DeleteDisables:    row.DeleteDisables,
		})
	}

	if diff := cmp.Diff([]flags{
		{ID: "name", Enabled: true, Protected: true},
		{ID: "phone", Enabled: true, Protected: true},
		{ID: "gender", Enabled: true, CanDelete: true, CanToggleEnabled: true, CanToggleRequired: true, DeleteDisables: true},
		{ID: custom, Enabled: true, CanDelete: true, CanToggleEnabled: true, CanToggleRequired: true, CanEditType: true},
		{ID: "email", Enabled: true, Protected: true, CanDelete: true, CanToggleEnabled: true, DeleteDisables: true},
		{ID: "memo", Enabled: false, CanToggleEnabled: true, CanToggleRequired: true, DeleteDisables: true},
	}, rows); diff != "" {
		t.Error(diff)
	}

	if diff := cmp.Diff([]string{"address", "birthdate", "company", "memo"}, ids(editor.AvailablePresets)); diff != "" {
		t.Error(diff)
	}
}
