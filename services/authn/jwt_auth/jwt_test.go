package jwt_auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
)

func newEnv(values map[string]string) *leadclient.Environment {
	return &leadclient.Environment{
		Namespace: "leadform",
		Config:    leadclient.NewConfigWith(values),
	}
}

func TestJWT(t *testing.T) {
	verify, ja, err := New(newEnv(map[string]string{
		CfgJWTSecret: "abc",
	}))
	if err != nil {
		t.Error(err)
		return
	}

	for _, test := range []struct {
		name   string
		claims jwt.StandardClaims
		from   string
		want   authn.Principal
		code   int
	}{
		{
			name:   "portal",
			claims: jwt.StandardClaims{Subject: "acme", Audience: authn.PortalAudience},
			from:   "header",
			want:   authn.Principal{Tenant: "acme"},
		},
		{
			name:   "admin",
			claims: jwt.StandardClaims{Audience: authn.AdminAudience},
			from:   "query",
			want:   authn.Principal{Admin: true},
		},
		{
			name:   "cookie",
			claims: jwt.StandardClaims{Subject: "acme"},
			from:   "cookie",
			want:   authn.Principal{Tenant: "acme"},
		},
		{
			name:   "no tenant",
			claims: jwt.StandardClaims{Audience: authn.PortalAudience},
			from:   "header",
			code:   http.StatusUnauthorized,
		},
		{
			name:   "expired",
			claims: jwt.StandardClaims{Subject: "acme", ExpiresAt: time.Now().Add(-time.Hour).Unix()},
			from:   "header",
			code:   http.StatusUnauthorized,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, token, err := ja.Encode(&test.claims)
			if err != nil {
				t.Error(err)
				return
			}

			req := httptest.NewRequest(http.MethodGet, "/forms/acme/editor", nil)
			switch test.from {
			case "query":
				req = httptest.NewRequest(http.MethodGet, "/forms/acme/editor?token="+token, nil)
			case "cookie":
				req.AddCookie(&http.Cookie{Name: "token", Value: token})
			default:
				req.Header.Set("Authorization", "Bearer "+token)
			}

			ctx, err := verify(context.Background(), req)
			if test.code != 0 {
				if err == nil {
					t.Error("want error got ok")
					return
				}
				if code := errors.GetHttpCode(err); code != test.code {
					t.Errorf("want %d got %d", test.code, code)
				}
				return
			}
			if err != nil {
				t.Error(err)
				return
			}
			p, ok := authn.PrincipalFromContext(ctx)
			if !ok {
				t.Error("principal is missing")
				return
			}
			if p != test.want {
				t.Errorf("want %#v got %#v", test.want, p)
			}
		})
	}
}

func TestJWTWrongSecret(t *testing.T) {
	verify, _, err := New(newEnv(map[string]string{
		CfgJWTSecret: "abc",
	}))
	if err != nil {
		t.Error(err)
		return
	}

	other := NewJWTAuth("HS256", []byte("other"), nil)
	_, token, err := other.Encode(&jwt.StandardClaims{Subject: "acme"})
	if err != nil {
		t.Error(err)
		return
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	_, err = verify(context.Background(), req)
	if err == nil {
		t.Error("want error got ok")
	}

	_, err = verify(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	if err != authn.ErrTokenNotFound {
		t.Errorf("want ErrTokenNotFound got %v", err)
	}
}

func TestNewWithoutSecret(t *testing.T) {
	_, _, err := New(newEnv(nil))
	if err == nil {
		t.Error("want error got ok")
	}

	_, _, err = New(newEnv(map[string]string{
		CfgJWTSecret: "abc",
		CfgJWTAlg:    "XX999",
	}))
	if err == nil {
		t.Error("want error got ok")
	}
}
