package echosrv

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pola2025/leadform"
	"github.com/pola2025/leadform/engine/echofunctions"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/goutils/httpext"
	"github.com/pola2025/leadform/leadclient"
	"github.com/pola2025/leadform/services/authn"
	"github.com/pola2025/leadform/services/forms"
	"golang.org/x/exp/slog"
)

const CfgHTTPListen = "http.listen"
const CfgHTTPPrefix = "http.prefix"

const DefaultPrefix = "/leadform/api/v1"

var middlewares []echo.MiddlewareFunc

func Use(middleware ...echo.MiddlewareFunc) {
	middlewares = append(middlewares, middleware...)
}

// errorHandler 开发模式下所有的错误都记录日志，否则只记录 5xx
func errorHandler(logger *slog.Logger, debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var encodedError *errors.EncodeError
		if he, ok := err.(*echo.HTTPError); ok {
			encodedError = &errors.EncodeError{Code: he.Code}
			if he.Internal != nil {
				encodedError.Message = he.Internal.Error()
			} else if msg, ok := he.Message.(string); ok {
				encodedError.Message = msg
			} else {
				encodedError.Message = http.StatusText(he.Code)
			}
		} else {
			encodedError = errors.ToEncodeError(err)
		}

		code := encodedError.HTTPCode()
		if debug || code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request fail",
				slog.String("method", c.Request().Method),
				slog.String("url", c.Request().URL.Path),
				leadclient.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, encodedError)
		}
		if err != nil {
			logger.WarnContext(c.Request().Context(), "write error response fail", leadclient.Error(err))
		}
	}
}

// New 创建 echo 服务，auth 为空时编辑相关的接口都返回 401
func New(srv *leadform.Server, prefix string, auth ...authn.AuthValidateFunc) (*echo.Echo, error) {
	// Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Debug = srv.Env.IsDevMode()
	e.HTTPErrorHandler = errorHandler(srv.Env.Logger, e.Debug)

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	for _, m := range middlewares {
		e.Use(m)
	}

	if prefix == "" {
		prefix = srv.Env.Config.StringWithDefault(CfgHTTPPrefix, DefaultPrefix)
	}

	// Routes
	mux := e.Group(prefix)
	forms.InitFormsForHTTP(mux, srv.Forms, echofunctions.HTTPAuth(nil, auth...))
	return e, nil
}

// Start 在一个随机的端口上运行服务，返回服务的地址，用于测试
func Start(srv *leadform.Server, prefix string, auth ...authn.AuthValidateFunc) (string, io.Closer, error) {
	engine, err := New(srv, prefix, auth...)
	if err != nil {
		return "", nil, err
	}
	hsrv := httptest.NewServer(engine)
	return hsrv.URL, leadclient.CloseFunc(func() error {
		hsrv.Close()
		return nil
	}), nil
}

func Run(ctx context.Context, srv *leadform.Server) error {
	auth, err := srv.Auth()
	if err != nil {
		return errors.Wrap(err, "init auth")
	}

	engine, err := New(srv, "", auth...)
	if err != nil {
		return err
	}

	listenAt := srv.Env.Config.StringWithDefault(CfgHTTPListen, ":8080")
	runner := httpext.NewRunner(srv.Env.Logger, listenAt)
	return runner.Run(ctx, engine)
}
