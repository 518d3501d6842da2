package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	xerrors "golang.org/x/exp/errors"
)

// EncodeError 不支持 Is 和 As，转换成 EncodeError 之前要先做好判断。

var (
	ErrNotFound        error = sql.ErrNoRows
	ErrUnauthorized    error = WithHTTPCode(errors.New("unauthorized"), http.StatusUnauthorized)
	ErrPermissionDeny  error = WithHTTPCode(errors.New("permission deny"), http.StatusForbidden)
	ErrTenantMismatch        = Wrap(ErrPermissionDeny, "token is not issued for this tenant")
	ErrUnknownStore          = errors.New("form store is unknown")
	ErrValidationError error = WithHTTPCode(errors.New("validation error"), http.StatusBadRequest)
)

type Wrapper = xerrors.Wrapper

type HTTPCoder interface {
	HTTPCode() int
}

type withMessage struct {
	err error
	msg string
}

var _ Wrapper = &withMessage{}

func (w *withMessage) Unwrap() error {
	return w.err
}

func (w *withMessage) Error() string {
	return w.msg + ": " + w.err.Error()
}

func New(msg string) error {
	return errors.New(msg)
}

func Wrap(err error, msg string) error {
	if err == nil {
		panic("Wrap: err is null")
	}
	return &withMessage{err: err, msg: msg}
}

func As(err error, target interface{}) bool {
	return xerrors.As(err, target)
}

// Join 忽略 nil，只有一个错误时原样返回
func Join(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return errors.Join(kept...)
}

type withCode struct {
	err  error
	code int
}

var _ Wrapper = &withCode{}

func (w *withCode) HTTPCode() int {
	return w.code
}

func (w *withCode) ErrorCode() int {
	return w.code
}

func (w *withCode) Unwrap() error {
	return w.err
}

func (w *withCode) Error() string {
	return w.err.Error()
}

// WithHTTPCode 返回的类型同时满足 resty.HTTPError，可以直接作为远程请求的错误
func WithHTTPCode(err error, code int) *withCode {
	return &withCode{err: err, code: code}
}

type withKeyValue struct {
	err   error
	name  string
	value interface{}
}

var _ Wrapper = &withKeyValue{}

func (w *withKeyValue) Unwrap() error {
	return w.err
}

func (w *withKeyValue) Error() string {
	return w.err.Error()
}

// WithKeyValue 附加的键值会出现在响应的 data 中，外层的同名键优先
func WithKeyValue(err error, name string, value interface{}) error {
	return &withKeyValue{err: err, name: name, value: value}
}

func keyValues(target error, values map[string]interface{}) map[string]interface{} {
	for target != nil {
		if kv, ok := target.(*withKeyValue); ok {
			if values == nil {
				values = map[string]interface{}{}
			}
			if _, exists := values[kv.name]; !exists {
				values[kv.name] = kv.value
			}
			target = kv.Unwrap()
			continue
		}

		switch x := target.(type) {
		case interface{ Unwrap() error }:
			target = x.Unwrap()
		case interface{ Unwrap() []error }:
			for _, err := range x.Unwrap() {
				if err != nil {
					values = keyValues(err, values)
				}
			}
			return values
		default:
			return values
		}
	}
	return values
}

func tryGetHttpCode(target error) (int, bool) {
	for target != nil {
		if hc, ok := target.(HTTPCoder); ok {
			if code := hc.HTTPCode(); code != 0 {
				return code, true
			}
		}
		inner, ok := target.(Wrapper)
		if !ok {
			break
		}
		target = inner.Unwrap()
	}
	return 0, false
}

// HttpCodeWith 取错误对应的 http 状态码，找不到时返回 defaultCode 或 500
func HttpCodeWith(target error, defaultCode ...int) int {
	if IsNotFound(target) {
		return http.StatusNotFound
	}
	if code, ok := tryGetHttpCode(target); ok {
		return code
	}
	if len(defaultCode) > 0 {
		return defaultCode[0]
	}
	return http.StatusInternalServerError
}

// GetHttpCode 与 HttpCodeWith 不同，错误没有携带状态码时返回 0
func GetHttpCode(target error) int {
	code, _ := tryGetHttpCode(target)
	return code
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NewNotFound 表示租户或者字段不存在
func NewNotFound(kind, id string) error {
	return WithKeyValue(Wrap(ErrNotFound, kind+" '"+id+"' is not found"), kind, id)
}

func NewBadArgument(err error, operation, param string, value ...interface{}) error {
	msg := "invoke '" + operation + "' fail, argument '" + param + "' is invalid"
	if len(value) > 0 && value[0] != nil {
		msg += " - '" + fmt.Sprint(value[0]) + "'"
	}
	return &EncodeError{
		Code:    http.StatusBadRequest,
		Message: msg + ": " + err.Error(),
		Fields:  keyValues(err, nil),
	}
}

// NewValidationError 将多个校验问题合成一个 400 错误，details 会放在 data.details 中
func NewValidationError(msg string, details interface{}) error {
	return &EncodeError{
		Code:    http.StatusBadRequest,
		Message: ErrValidationError.Error() + ": " + msg,
		Fields: map[string]interface{}{
			"details": details,
		},
	}
}

// EncodeError 接口返回的错误体
type EncodeError struct {
	Code    int                    `json:"code,omitempty"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"data,omitempty"`
}

func (err *EncodeError) HTTPCode() int {
	return err.Code
}

func (err *EncodeError) ErrorCode() int {
	return err.Code
}

func (err *EncodeError) Error() string {
	return err.Message
}

func ToEncodeError(err error, code ...int) *EncodeError {
	if ee, ok := err.(*EncodeError); ok {
		return ee
	}
	return &EncodeError{
		Code:    HttpCodeWith(err, code...),
		Message: err.Error(),
		Fields:  keyValues(err, nil),
	}
}
