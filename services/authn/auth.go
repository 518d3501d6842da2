package authn

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pola2025/leadform/errors"
	"golang.org/x/exp/slog"
)

func NewHTTPError(code int, msg string) error {
	return errors.WithHTTPCode(errors.New(msg), code)
}

var (
	ErrUnauthorized  = NewHTTPError(http.StatusUnauthorized, "auth: token is unauthorized")
	ErrTokenExpired  = NewHTTPError(http.StatusUnauthorized, "auth: token is expired")
	ErrTokenNotFound = NewHTTPError(http.StatusUnauthorized, "auth: no token found")

	ErrInvalidCredentials = NewHTTPError(http.StatusUnauthorized, "auth: username or password is invalid")

	// 仅用于 token 找到，但不适用检验函数的时候
	ErrSkipped = errors.New("auth: skipped")
)

func ReturnError(ctx context.Context, w http.ResponseWriter, r *http.Request, code int, err error) {
	encodedError := errors.ToEncodeError(err, code)

	RenderJSON(ctx, w, r, encodedError.HTTPCode(), encodedError)
}

func RenderJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.WarnContext(ctx, "encode http response fail",
			slog.String("method", r.Method),
			slog.String("url", r.URL.Path),
			slog.Any("error", err))
	}
}

type AuthValidateFunc func(ctx context.Context, req *http.Request) (context.Context, error)
