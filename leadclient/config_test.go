package leadclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pola2025/leadform/formfield"
)

func TestConfig(t *testing.T) {
	cfg := NewConfigWith(map[string]string{
		"a.int":      "12",
		"a.bad_int":  "x",
		"a.bool":     "on",
		"a.duration": "3s",
		"a.strings":  "a, b,,c",
		"a.empty":    "",
	})

	if got := cfg.IntWithDefault("a.int", 1); got != 12 {
		t.Errorf("want 12 got %d", got)
	}
	if got := cfg.IntWithDefault("a.bad_int", 1); got != 1 {
		t.Errorf("want 1 got %d", got)
	}
	if got := cfg.Int64WithDefault("a.missing", 7); got != 7 {
		t.Errorf("want 7 got %d", got)
	}
	if !cfg.BoolWithDefault("a.bool", false) {
		t.Error("want true")
	}
	if got := cfg.DurationWithDefault("a.duration", time.Second); got != 3*time.Second {
		t.Errorf("want 3s got %s", got)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, cfg.StringsWithDefault("a.strings", nil)); diff != "" {
		t.Error(diff)
	}
	if got := cfg.StringWithDefault("a.empty", "d"); got != "d" {
		t.Errorf("want d got %q", got)
	}
}

func TestNewEnvironmentWith(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "test.properties")
	err := os.WriteFile(filename, []byte("forms.store=inmem\nlog.filename=stdout\nlog.level=debug\napp.urlpath=/forms/\n"), 0o644)
	if err != nil {
		t.Error(err)
		return
	}

	env, err := NewEnvironmentWith("leadform", filename, map[string]string{
		"leadform_root_dir": dir,
		"forms.store":       "sqlite",
		"http.listen":       ":1234",
	})
	if err != nil {
		t.Error(err)
		return
	}

	if got := env.Config.StringWithDefault("forms.store", ""); got != "inmem" {
		t.Errorf("file must override defaults, got %q", got)
	}
	if got := env.Config.StringWithDefault("http.listen", ""); got != ":1234" {
		t.Errorf("want :1234 got %q", got)
	}
	if env.AppPathWithoutSlash != "/forms" || env.AppPathWithSlash != "/forms/" {
		t.Errorf("app path is %q", env.AppPathWithoutSlash)
	}
	if got := env.Fs.FromData("a.json"); got != filepath.Join(dir, "data", "a.json") {
		t.Errorf("data dir is %q", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Error(err)
		return
	}
	if catalog != formfield.DefaultCatalog {
		t.Error("want default catalog")
	}

	filename := filepath.Join(t.TempDir(), "presets.hjson")
	err = os.WriteFile(filename, []byte(`{
  # 회사 필드의 문구
  presets: [
    {
      id: company
      label: 소속
      placeholder: 소속을 입력해주세요
    }
  ]
}`), 0o644)
	if err != nil {
		t.Error(err)
		return
	}

	catalog, err = LoadCatalog(filename)
	if err != nil {
		t.Error(err)
		return
	}
	company, _ := catalog.Preset(formfield.IDCompany)
	if company.Label != "소속" || company.Placeholder != "소속을 입력해주세요" {
		t.Errorf("override is ignored: %#v", company)
	}
}

func TestParseLevel(t *testing.T) {
	if _, unknown := ParseLevel("verbose"); !unknown {
		t.Error("want unknown")
	}
	if level, _ := ParseLevel("WARN"); level.String() != "WARN" {
		t.Errorf("want WARN got %s", level)
	}
}
