package exporter

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pola2025/leadform/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingEUCKR   = "euc-kr"
)

// GetEncoding 支持 utf-8 和 euc-kr（cp949），旧版本的 Excel 打开 csv 时需要 euc-kr
func GetEncoding(name string) (encoding.Encoding, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EncodingUTF8, "utf8", EncodingUTF8BOM:
		return encoding.Nop, true
	case EncodingEUCKR, "euckr", "cp949", "ks_c_5601-1987":
		return korean.EUCKR, true
	default:
		return nil, false
	}
}

func NewCsvWriter(writer io.Writer, fileEncoding string) (Writer, error) {
	charsetEncoding, ok := GetEncoding(fileEncoding)
	if !ok {
		return nil, errors.New("file encoding '" + fileEncoding + "' is unsupported")
	}

	if strings.ToLower(fileEncoding) == EncodingUTF8BOM {
		if _, err := writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return nil, err
		}
	}
	if charsetEncoding == encoding.Nop {
		return csvWriter{out: csv.NewWriter(writer)}, nil
	}

	w := transform.NewWriter(writer, charsetEncoding.NewEncoder())
	return csvWriter{out: csv.NewWriter(w), closer: w}, nil
}

type csvWriter struct {
	closer io.Closer
	out    *csv.Writer
}

func (cw csvWriter) Close() error {
	err1 := cw.Flush()
	if cw.closer == nil {
		return err1
	}
	err2 := cw.closer.Close()
	return errors.Join(err1, err2)
}

func (cw csvWriter) Flush() error {
	cw.out.Flush()
	return cw.out.Error()
}

func (cw csvWriter) WriteTitle(record []string) error {
	return cw.out.Write(record)
}

func (cw csvWriter) Write(record []string) error {
	return cw.out.Write(record)
}

func ReadCSV(ctx context.Context, filename, fileEncoding string, reader io.Reader) (Reader, io.Closer, error) {
	charsetEncoding, ok := GetEncoding(fileEncoding)
	if !ok {
		return nil, nil, errors.New("file encoding '" + fileEncoding + "' is unsupported")
	}

	closer := NoCloser()
	if reader == nil {
		r, err := os.Open(filename)
		if err != nil {
			return nil, nil, err
		}
		reader = r
		closer = r
	}

	if charsetEncoding == encoding.Nop {
		reader = transform.NewReader(reader, unicode.BOMOverride(encoding.Nop.NewDecoder()))
	} else {
		reader = transform.NewReader(reader, charsetEncoding.NewDecoder())
	}
	return csv.NewReader(reader), closer, nil
}
