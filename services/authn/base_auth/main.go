package base_auth

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
)

const HeaderAuthorization = "Authorization"

const (
	CfgUsername = "auth.basic.username"
	CfgPassword = "auth.basic.password"
)

const basic = "basic"

type ValidateFunc func(ctx context.Context, req *http.Request, username string, password string) (context.Context, error)

func Verify(validator ValidateFunc) authn.AuthValidateFunc {
	return func(ctx context.Context, req *http.Request) (context.Context, error) {
		auth := req.Header.Get(HeaderAuthorization)
		l := len(basic)

		if len(auth) > l+1 && strings.EqualFold(auth[:l], basic) {
			// Invalid base64 shouldn't be treated as error
			// instead should be treated as invalid client input
			b, err := base64.StdEncoding.DecodeString(auth[l+1:])
			if err != nil {
				return nil, authn.ErrInvalidCredentials
			}

			cred := string(b)
			if i := strings.IndexByte(cred, ':'); i >= 0 {
				return validator(ctx, req, cred[:i], cred[i+1:])
			}
			return nil, authn.ErrInvalidCredentials
		}
		return nil, authn.ErrTokenNotFound
	}
}

// New 后台同步任务使用的管理员账号，没有配置密码时返回 nil
func New(env *leadclient.Environment) authn.AuthValidateFunc {
	username := env.Config.StringWithDefault(CfgUsername, "admin")
	password := env.Config.StringWithDefault(CfgPassword, "")
	if password == "" {
		return nil
	}
	return Verify(AdminAccount(username, password))
}

// AdminAccount 账号匹配时以管理员身份访问
func AdminAccount(username, password string) ValidateFunc {
	return func(ctx context.Context, req *http.Request, u, p string) (context.Context, error) {
		userOk := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
		passwordOk := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
		if !userOk || !passwordOk {
			return nil, authn.ErrInvalidCredentials
		}
		return authn.ContextWithPrincipal(ctx, authn.Principal{Admin: true}), nil
	}
}
