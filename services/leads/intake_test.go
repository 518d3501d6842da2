package leads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/leadclient"
	"golang.org/x/exp/slog"
)

func newEnv(values map[string]string) *leadclient.Environment {
	return &leadclient.Environment{
		Logger:    slog.Default(),
		Namespace: "leadform",
		Config:    leadclient.NewConfigWith(values),
	}
}

func TestHTTPIntake(t *testing.T) {
	var got Lead
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	intake, err := NewIntake(newEnv(map[string]string{
		CfgIntakeURL:   srv.URL + "/leads",
		CfgIntakeToken: "secret",
	}))
	if err != nil {
		t.Error(err)
		return
	}

	lead := &Lead{
		Tenant:      "acme",
		Fields:      map[string]string{"name": "홍길동", "phone": "010-1234-5678"},
		SubmittedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := intake.Submit(context.Background(), lead); err != nil {
		t.Error(err)
		return
	}

	if auth != "Bearer secret" {
		t.Errorf("authorization is %q", auth)
	}
	if diff := cmp.Diff(*lead, got); diff != "" {
		t.Error(diff)
	}
}

func TestHTTPIntakeFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"code":502,"message":"down"}`))
	}))
	defer srv.Close()

	intake, err := NewIntake(newEnv(map[string]string{
		CfgIntakeURL: srv.URL,
	}))
	if err != nil {
		t.Error(err)
		return
	}
	err = intake.Submit(context.Background(), &Lead{Tenant: "acme"})
	if err == nil {
		t.Error("want error got ok")
	}
}

func TestLogIntake(t *testing.T) {
	intake, err := NewIntake(newEnv(nil))
	if err != nil {
		t.Error(err)
		return
	}
	if _, ok := intake.(*logIntake); !ok {
		t.Errorf("want logIntake got %T", intake)
		return
	}
	if err := intake.Submit(context.Background(), &Lead{Tenant: "acme"}); err != nil {
		t.Error(err)
	}
}
