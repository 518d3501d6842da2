package leadclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"

	"github.com/hjson/hjson-go/v4"
	"github.com/pola2025/leadform/errors"
	"github.com/pola2025/leadform/formfield"
	"github.com/runner-mei/resty"
)

type CloseFunc func() error

func (f CloseFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}

func FromHjsonFile(filename string, target interface{}, contentFuncs ...func([]byte) []byte) error {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return FromHjson(bs, target, contentFuncs...)
}

func FromHjson(bs []byte, target interface{}, contentFuncs ...func([]byte) []byte) error {
	if bytes.HasPrefix(bs, []byte{0xEF, 0xBB, 0xBF}) {
		// REMOVE bom
		bs = bs[3:]
	}

	for _, cb := range contentFuncs {
		bs = cb(bs)
	}

	return hjson.UnmarshalWithOptions(bs, target, hjson.DecoderOptions{
		UseJSONNumber:         true,
		DisallowUnknownFields: false,
		DisallowDuplicateKeys: false,
		WhitespaceAsComments:  true,
	})
}

// LoadCatalog 从 hjson 文件中读可选预置字段的覆盖配置，filename 为空时使用默认的目录
//
//	{
//	  presets: [
//	    { id: company, label: 소속, placeholder: 소속을 입력해주세요 }
//	  ]
//	}
func LoadCatalog(filename string) (*formfield.Catalog, error) {
	if filename == "" {
		return formfield.DefaultCatalog, nil
	}
	var data struct {
		Presets []formfield.Field `json:"presets"`
	}
	if err := FromHjsonFile(filename, &data); err != nil {
		return nil, errors.Wrap(err, "load presets from '"+filename+"' fail")
	}
	return formfield.NewCatalog(data.Presets), nil
}

// FileExists 文件是否存在
func FileExists(dir string, e ...*error) bool {
	info, err := os.Stat(dir)
	if err != nil {
		if len(e) != 0 && e[0] != nil {
			*e[0] = err
		}
		return false
	}

	return !info.IsDir()
}

func NewResty(baseURL string) (*resty.Proxy, error) {
	pxy, err := resty.New(baseURL)
	if err != nil {
		return nil, err
	}
	pxy = pxy.SetContentType(resty.MIMEApplicationJSONCharsetUTF8)
	pxy = pxy.ErrorFunc(errorFunc)
	return pxy, nil
}

func errorFunc(ctx context.Context, req *http.Request, resp *http.Response) resty.HTTPError {
	cached := resty.DefaultPool.Get()
	defer resty.DefaultPool.Put(cached)

	var err errors.EncodeError
	decoder := json.NewDecoder(io.TeeReader(resp.Body, cached))
	decoder.UseNumber()
	e := decoder.Decode(&err)
	if e != nil {
		return errors.WithHTTPCode(errors.Wrap(e, "request '"+req.Method+"' is ok and unmarshal response fail\r\n"+
			cached.String()), resty.ErrUnmarshalResponseFailCode())
	}
	if err.Message == "" {
		return errors.WithHTTPCode(errors.New("request '"+req.Method+"' is ok and unmarshal response fail\r\n"+
			cached.String()), resty.ErrUnmarshalResponseFailCode())
	}
	if err.Code == 0 {
		err.Code = resp.StatusCode
	}
	return &err
}
