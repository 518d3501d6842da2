package app_tests

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pola2025/leadform"
	"github.com/pola2025/leadform/engine/echosrv"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
	"github.com/pola2025/leadform/services/authn/jwt_auth"
	"github.com/pola2025/leadform/services/leads"
)

const TestSecret = "leadform-test-secret"

type TestApp struct {
	Params     map[string]string
	CurrentDir string
	Env        *leadclient.Environment
	Server     *leadform.Server
	Intake     *leads.Recorder
	Closer     io.Closer
	BaseURL    string
}

func setDefault(params map[string]string, key, value string) {
	if _, ok := params[key]; !ok {
		params[key] = value
	}
}

func NewTestApp(t testing.TB, params map[string]string) *TestApp {
	currentDir, err := GetModulePath()
	if err != nil {
		t.Error("GetModulePath()", err)
		t.FailNow()
	}
	if params == nil {
		params = map[string]string{}
	}
	setDefault(params, "leadform_root_dir", t.TempDir())
	setDefault(params, "log.filename", "stdout")
	setDefault(params, "log.level", "debug")
	setDefault(params, "forms.store", "inmem")
	setDefault(params, "sqlite.reset", "true")
	setDefault(params, jwt_auth.CfgJWTSecret, TestSecret)
	return &TestApp{
		Params:     params,
		CurrentDir: currentDir,
		Intake:     &leads.Recorder{},
	}
}

func (app *TestApp) Start(t testing.TB) {
	env, err := leadclient.NewEnvironmentWith("leadform", "", app.Params)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	app.Env = env

	srv, err := leadform.NewServerWith(env, nil, app.Intake)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	app.Server = srv

	auth, err := srv.Auth()
	if err != nil {
		srv.Close()
		t.Error(err)
		t.FailNow()
	}

	baseURL, closer, err := echosrv.Start(srv, echosrv.DefaultPrefix, auth...)
	if err != nil {
		srv.Close()
		t.Error(err)
		t.FailNow()
	}
	app.BaseURL = baseURL + echosrv.DefaultPrefix
	app.Closer = leadclient.CloseFunc(func() error {
		return errors.Join(closer.Close(), srv.Close())
	})
}

func (app *TestApp) Stop(t testing.TB) {
	err := app.Closer.Close()
	if err != nil {
		t.Error(err)
	}
}

// Token 生成门户的 token，tenant 为空时是管理员
func (app *TestApp) Token(t testing.TB, tenant string) string {
	claims := &jwt.StandardClaims{
		Subject:   tenant,
		Audience:  authn.PortalAudience,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if tenant == "" {
		claims.Audience = authn.AdminAudience
	}
	_, token, err := jwt_auth.NewJWTAuth("HS256", []byte(app.Params[jwt_auth.CfgJWTSecret]), nil).Encode(claims)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	return token
}

// Client 使用指定租户的 token 访问服务
func (app *TestApp) Client(t testing.TB, tenant string) *leadclient.FormsClient {
	pxy, err := leadclient.NewResty(app.BaseURL)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	return leadclient.NewRemoteForms(pxy, app.Token(t, tenant))
}

// PublicClient 不带 token 的访问
func (app *TestApp) PublicClient(t testing.TB) *leadclient.FormsClient {
	pxy, err := leadclient.NewResty(app.BaseURL)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	return leadclient.NewRemoteForms(pxy, "")
}

func GetModulePath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		gomod := filepath.Join(wd, "go.mod")
		if leadclient.FileExists(gomod) {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if len(parent) >= len(wd) {
			return "", errors.New("go.mod is not found")
		}
		wd = parent
	}
}
