package app_tests

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/pola2025/leadform/leadclient"
)

func fieldIDs(fields formfield.Schema) []string {
	var ids []string
	for _, f := range formfield.Ordered(fields) {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestFormsEditAndSubmit(t *testing.T) {
	app := NewTestApp(t, nil)
	app.Start(t)
	defer app.Stop(t)

	ctx := context.Background()
	client := app.Client(t, "acme")
	public := app.PublicClient(t)

	fields, err := public.Get(ctx, "acme")
	if err != nil {
		t.Error(err)
		return
	}
	if diff := cmp.Diff([]string{"name", "phone"}, fieldIDs(fields)); diff != "" {
		t.Error(diff)
	}

	fields, err = client.AddPreset(ctx, "acme", formfield.IDEmail)
	if err != nil {
		t.Error(err)
		return
	}
	if diff := cmp.Diff([]string{"name", "phone", "email"}, fieldIDs(fields)); diff != "" {
		t.Error(diff)
	}

	result, err := client.AddCustomField(ctx, "acme", &leadclient.CustomField{
		Type:  formfield.TypeRadio,
		Label: "상담 방식",
		Options: []formfield.Option{
			{Value: "call", Label: "전화"},
			{Value: "visit", Label: "방문"},
		},
	})
	if err != nil {
		t.Error(err)
		return
	}
	channelID := result.ID

	result, err = client.AddCustomField(ctx, "acme", &leadclient.CustomField{
		Type:     formfield.TypeText,
		Label:    "방문 지역",
		Required: true,
	})
	if err != nil {
		t.Error(err)
		return
	}
	regionID := result.ID

	_, err = client.SetCondition(ctx, "acme", regionID, &formfield.Condition{
		DependsOn: channelID,
		ShowWhen:  formfield.Equals("visit"),
	})
	if err != nil {
		t.Error(err)
		return
	}

	fields, err = client.Reorder(ctx, "acme", formfield.IDEmail, formfield.IDPhone)
	if err != nil {
		t.Error(err)
		return
	}
	if diff := cmp.Diff([]string{"name", "email", "phone", channelID, regionID}, fieldIDs(fields)); diff != "" {
		t.Error(diff)
	}

	state, err := public.Render(ctx, "acme", formfield.Values{channelID: "call"})
	if err != nil {
		t.Error(err)
		return
	}
	for _, fs := range state.Fields {
		if fs.Field.ID == regionID {
			t.Error("region must be hidden")
		}
	}

	submitted, err := public.Submit(ctx, "acme", formfield.Values{
		"name":    "홍길동",
		"phone":   "01012345678",
		channelID: "visit",
	})
	if err != nil {
		t.Error(err)
		return
	}
	if submitted.Accepted {
		t.Error("region is required when visit is selected")
	}
	if len(app.Intake.Leads()) != 0 {
		t.Error("rejected lead is forwarded")
	}

	submitted, err = public.Submit(ctx, "acme", formfield.Values{
		"name":    "홍길동",
		"phone":   "01012345678",
		"email":   " hong@example.com ",
		channelID: "call",
		regionID:  "부산",
	})
	if err != nil {
		t.Error(err)
		return
	}
	if !submitted.Accepted {
		t.Errorf("want accepted got %#v", submitted.Report)
		return
	}

	leads := app.Intake.Leads()
	if len(leads) != 1 {
		t.Errorf("want 1 lead got %d", len(leads))
		return
	}
	if diff := cmp.Diff(map[string]string{
		"name":    "홍길동",
		"phone":   "010-1234-5678",
		"email":   "hong@example.com",
		channelID: "call",
	}, leads[0].Fields); diff != "" {
		t.Error(diff)
	}
	if leads[0].Tenant != "acme" {
		t.Errorf("tenant is %q", leads[0].Tenant)
	}
}

func TestFormsEditorView(t *testing.T) {
	app := NewTestApp(t, nil)
	app.Start(t)
	defer app.Stop(t)

	ctx := context.Background()
	client := app.Client(t, "acme")

	editor, err := client.Editor(ctx, "acme")
	if err != nil {
		t.Error(err)
		return
	}
	if len(editor.Rows) != 2 {
		t.Errorf("want 2 rows got %d", len(editor.Rows))
		return
	}
	for _, row := range editor.Rows {
		if !row.Protected || row.CanDelete || row.CanToggleEnabled {
			t.Errorf("%s must be protected: %#v", row.Field.ID, row)
		}
	}
	if len(editor.AvailablePresets) == 0 {
		t.Error("presets are missing")
	}

	fields, err := client.DeleteField(ctx, "acme", formfield.IDName)
	if err != nil {
		t.Error(err)
		return
	}
	if diff := cmp.Diff([]string{"name", "phone"}, fieldIDs(fields)); diff != "" {
		t.Error(diff)
	}
}

func TestFormsAuth(t *testing.T) {
	app := NewTestApp(t, nil)
	app.Start(t)
	defer app.Stop(t)

	ctx := context.Background()

	_, err := app.PublicClient(t).AddPreset(ctx, "acme", formfield.IDEmail)
	if err == nil {
		t.Error("want error got ok")
	} else if code := errors.GetHttpCode(err); code != http.StatusUnauthorized {
		t.Errorf("want 401 got %d: %v", code, err)
	}

	_, err = app.Client(t, "other").AddPreset(ctx, "acme", formfield.IDEmail)
	if err == nil {
		t.Error("want error got ok")
	} else if code := errors.GetHttpCode(err); code != http.StatusForbidden {
		t.Errorf("want 403 got %d: %v", code, err)
	}

	_, err = app.Client(t, "").AddPreset(ctx, "acme", formfield.IDEmail)
	if err != nil {
		t.Error(err)
	}
}

func TestFormsPutRejectsInvalid(t *testing.T) {
	app := NewTestApp(t, nil)
	app.Start(t)
	defer app.Stop(t)

	ctx := context.Background()
	client := app.Client(t, "acme")

	err := client.Put(ctx, "acme", formfield.Schema{
		{ID: "name", Type: formfield.TypeText, Label: "이름", Required: true, Enabled: true, Order: 0},
	})
	if err == nil {
		t.Error("want error got ok")
	} else if code := errors.GetHttpCode(err); code != http.StatusBadRequest {
		t.Errorf("want 400 got %d: %v", code, err)
	}

	_, err = client.ToggleEnabled(ctx, "acme", "missing")
	if err == nil {
		t.Error("want error got ok")
	} else if code := errors.GetHttpCode(err); code != http.StatusNotFound {
		t.Errorf("want 404 got %d: %v", code, err)
	}
}

func TestFormsBasicAuthAndExport(t *testing.T) {
	app := NewTestApp(t, map[string]string{
		"auth.basic.username": "sync",
		"auth.basic.password": "s3cret",
	})
	app.Start(t)
	defer app.Stop(t)

	req, err := http.NewRequest(http.MethodGet, app.BaseURL+"/forms/acme/fields/export/csv", nil)
	if err != nil {
		t.Error(err)
		return
	}
	req.SetBasicAuth("sync", "s3cret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return
	}
	defer resp.Body.Close()
	bs, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("want 200 got %d: %s", resp.StatusCode, bs)
		return
	}
	if !strings.HasPrefix(string(bs), "ID,Type,Label") {
		t.Errorf("body is %q", bs)
	}

	req.SetBasicAuth("sync", "wrong")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("want 401 got %d", resp.StatusCode)
	}
}
