package echofunctions

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/services/authn"
)

func GetContext(ctx echo.Context) context.Context {
	o := ctx.Get("stdcontext")
	if o == nil {
		return ctx.Request().Context()
	}
	c, ok := o.(context.Context)
	if !ok {
		return ctx.Request().Context()
	}
	return c
}

func SetContext(ctx echo.Context, stdctx context.Context) {
	ctx.Set("stdcontext", stdctx)
}

// ReturnError 按 EncodeError 的格式输出错误
func ReturnError(ctx echo.Context, err error) error {
	encodedError := errors.ToEncodeError(err)
	return ctx.JSON(encodedError.HTTPCode(), encodedError)
}

// HTTPAuth 依次调用检验函数，返回 ErrTokenNotFound 时尝试下一个
func HTTPAuth(returnError func(echo.Context, error) error, validateFns ...authn.AuthValidateFunc) echo.MiddlewareFunc {
	if returnError == nil {
		returnError = ReturnError
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			stdctx := GetContext(ctx)
			for _, fn := range validateFns {
				nctx, err := fn(stdctx, ctx.Request())
				if err == nil {
					SetContext(ctx, nctx)
					return next(ctx)
				}

				if err != authn.ErrTokenNotFound {
					return returnError(ctx, err)
				}
			}
			return returnError(ctx, authn.ErrTokenNotFound)
		}
	}
}
