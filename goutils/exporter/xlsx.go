package exporter

import (
	"context"
	"io"
	"os"

	"github.com/pola2025/leadform/errors"
	"github.com/xuri/excelize/v2"
)

func ReadXlsx(ctx context.Context, filename string, sheetName string, reader io.Reader) (Reader, io.Closer, error) {
	closer := NoCloser()
	if reader == nil {
		r, err := os.Open(filename)
		if err != nil {
			return nil, nil, err
		}
		reader = r
		closer = r
	}

	file, err := excelize.OpenReader(reader)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}

	if sheetName == "" {
		sheetName = file.GetSheetName(0)
	}

	rows, err := file.Rows(sheetName)
	if err != nil {
		file.Close()
		closer.Close()
		return nil, nil, err
	}

	xr := &xlsxReader{
		file:   file,
		rows:   rows,
		closer: closer,
	}
	return xr, xr, nil
}

type xlsxReader struct {
	file   *excelize.File
	rows   *excelize.Rows
	closer io.Closer
}

func (r *xlsxReader) Close() error {
	err1 := r.rows.Close()
	err2 := r.file.Close()
	err3 := r.closer.Close()
	return errors.Join(err1, err2, err3)
}

func (r *xlsxReader) Read() ([]string, error) {
	if !r.rows.Next() {
		return nil, io.EOF
	}
	return r.rows.Columns()
}

func NewXlsxWriter(sheet string, out io.Writer) (Writer, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}

	file := excelize.NewFile()
	index, err := file.NewSheet(sheet)
	if err != nil {
		file.Close()
		return nil, err
	}
	file.SetActiveSheet(index)

	return &xlsxWriter{
		file:  file,
		out:   out,
		sheet: sheet,
	}, nil
}

type xlsxWriter struct {
	file *excelize.File
	out  io.Writer

	sheet    string
	rowIndex int
	closed   bool
}

// Close 写出整个文件，多次调用时只写一次
func (xw *xlsxWriter) Close() error {
	if xw.closed {
		return nil
	}
	xw.closed = true
	err1 := xw.file.Write(xw.out)
	err2 := xw.file.Close()
	return errors.Join(err1, err2)
}

func (xw *xlsxWriter) Flush() error {
	return nil
}

func (xw *xlsxWriter) WriteTitle(record []string) error {
	if err := xw.write(1, record); err != nil {
		return err
	}
	if len(record) == 0 {
		return nil
	}
	return xw.file.SetPanes(xw.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (xw *xlsxWriter) Write(record []string) error {
	err := xw.write(xw.rowIndex+2, record)
	if err != nil {
		return err
	}

	xw.rowIndex++
	return nil
}

func (xw *xlsxWriter) write(row int, record []string) error {
	for idx := range record {
		cell, err := excelize.CoordinatesToCellName(idx+1, row)
		if err != nil {
			return err
		}
		if err := xw.file.SetCellStr(xw.sheet, cell, record[idx]); err != nil {
			return err
		}
	}
	return nil
}
