package exporter

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testRecords = [][]string{
	{"name", "이름", "text", "true"},
	{"phone", "연락처", "tel", "true"},
}

var testTitles = []string{"ID", "Label", "Type", "Required"}

func readAll(t *testing.T, reader Reader) [][]string {
	t.Helper()

	var results [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Error(err)
			return nil
		}
		results = append(results, record)
	}
	return results
}

func TestCsv(t *testing.T) {
	for _, fileEncoding := range []string{"", EncodingUTF8BOM, EncodingEUCKR} {
		t.Run("encoding="+fileEncoding, func(t *testing.T) {
			var buf bytes.Buffer
			out, err := NewCsvWriter(&buf, fileEncoding)
			if err != nil {
				t.Error(err)
				return
			}
			if err := Export(context.Background(), out, Rows(testTitles, testRecords)); err != nil {
				t.Error(err)
				return
			}

			if fileEncoding == EncodingEUCKR && strings.Contains(buf.String(), "이름") {
				t.Error("want euc-kr got utf-8")
			}

			reader, closer, err := ReadCSV(context.Background(), "test.csv", fileEncoding, &buf)
			if err != nil {
				t.Error(err)
				return
			}
			defer closer.Close()

			excepted := append([][]string{testTitles}, testRecords...)
			if diff := cmp.Diff(excepted, readAll(t, reader)); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestXlsx(t *testing.T) {
	var buf bytes.Buffer
	out, err := NewXlsxWriter("", &buf)
	if err != nil {
		t.Error(err)
		return
	}
	if err := Export(context.Background(), out, Rows(testTitles, testRecords)); err != nil {
		t.Error(err)
		return
	}

	reader, closer, err := ReadXlsx(context.Background(), "test.xlsx", "", &buf)
	if err != nil {
		t.Error(err)
		return
	}
	defer closer.Close()

	excepted := append([][]string{testTitles}, testRecords...)
	if diff := cmp.Diff(excepted, readAll(t, reader)); diff != "" {
		t.Error(diff)
	}
}

func TestWriteHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	err := WriteHTTP(context.Background(), "acme", FormatCSV, EncodingEUCKR, false, w, Rows(testTitles, testRecords))
	if err != nil {
		t.Error(err)
		return
	}
	if ct := w.Header().Get("Content-Type"); ct != MIMETextCSVCharsetEUCKR {
		t.Errorf("content type is %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=acme.csv" {
		t.Errorf("content disposition is %q", cd)
	}

	err = WriteHTTP(context.Background(), "acme", "pdf", "", false, httptest.NewRecorder(), Rows(testTitles, testRecords))
	if err == nil {
		t.Error("want error got ok")
	}
}
