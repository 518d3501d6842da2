package exporter

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/pola2025/leadform/errors"
	"golang.org/x/exp/slog"
	"golang.org/x/text/encoding/korean"
)

// MIME types
const (
	MIMETextCSV             = "text/csv"
	MIMETextCSVCharsetUTF8  = MIMETextCSV + "; " + charsetUTF8
	MIMETextCSVCharsetEUCKR = MIMETextCSV + "; charset=EUC-KR"
	MIMEApplicationXlsx     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	charsetUTF8 = "charset=UTF-8"
)

const (
	FormatCSV  = "csv"
	FormatXlsx = "xlsx"
)

type Recorder interface {
	Open(ctx context.Context) (RecordIterator, []string, error)
}

type RecordIterator interface {
	io.Closer

	Next(ctx context.Context) bool

	Read(ctx context.Context) ([]string, error)
}

type RecorderFunc func(ctx context.Context) (RecordIterator, []string, error)

func (f RecorderFunc) Open(ctx context.Context) (RecordIterator, []string, error) {
	return f(ctx)
}

type RecorderFuncIterator struct {
	CloseFunc func() error
	NextFunc  func(ctx context.Context) bool
	ReadFunc  func(ctx context.Context) ([]string, error)
}

func (s RecorderFuncIterator) Close() error {
	if s.CloseFunc == nil {
		return nil
	}
	return s.CloseFunc()
}
func (s RecorderFuncIterator) Next(ctx context.Context) bool {
	return s.NextFunc(ctx)
}
func (s RecorderFuncIterator) Read(ctx context.Context) ([]string, error) {
	return s.ReadFunc(ctx)
}

// Rows 将内存中的记录包装成 Recorder
func Rows(titles []string, records [][]string) Recorder {
	return RecorderFunc(func(ctx context.Context) (RecordIterator, []string, error) {
		idx := -1
		return RecorderFuncIterator{
			NextFunc: func(ctx context.Context) bool {
				idx++
				return idx < len(records)
			},
			ReadFunc: func(ctx context.Context) ([]string, error) {
				return records[idx], nil
			},
		}, titles, nil
	})
}

func NewWriter(format, fileEncoding string, out io.Writer) (Writer, string, error) {
	switch format {
	case FormatCSV:
		w, err := NewCsvWriter(out, fileEncoding)
		if err != nil {
			return nil, "", errors.WithHTTPCode(err, http.StatusBadRequest)
		}
		if charsetEncoding, _ := GetEncoding(fileEncoding); charsetEncoding == korean.EUCKR {
			return w, MIMETextCSVCharsetEUCKR, nil
		}
		return w, MIMETextCSVCharsetUTF8, nil
	case FormatXlsx:
		w, err := NewXlsxWriter("", out)
		return w, MIMEApplicationXlsx, err
	default:
		return nil, "", errors.WithHTTPCode(errors.New("'"+format+"' is invalid format"), http.StatusBadRequest)
	}
}

// Export 将 recorder 中的全部记录写到 out 中
func Export(ctx context.Context, out Writer, recorder Recorder) error {
	iterator, titles, err := recorder.Open(ctx)
	if err != nil {
		return err
	}
	defer iterator.Close()

	err = out.WriteTitle(titles)
	if err != nil {
		return err
	}

	for iterator.Next(ctx) {
		record, err := iterator.Read(ctx)
		if err != nil {
			return err
		}

		err = out.Write(record)
		if err != nil {
			return err
		}
	}
	return out.Close()
}

func WriteHTTP(ctx context.Context, filename, format, fileEncoding string, inline bool, response http.ResponseWriter, recorder Recorder) error {
	var buf = bytes.NewBuffer(make([]byte, 0, 8*1024))

	out, contentType, err := NewWriter(format, fileEncoding, buf)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := Export(ctx, out, recorder); err != nil {
		return err
	}

	disposition := "attachment"
	if inline {
		disposition = "inline"
	}
	response.Header().Set("Content-Type", contentType)
	response.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": filepath.Base(filename) + "." + format,
	}))
	response.WriteHeader(http.StatusOK)
	_, err = response.Write(buf.Bytes())
	if err != nil {
		slog.WarnContext(ctx, "write buffer to http response error", slog.Any("error", err))
	}
	return nil
}
