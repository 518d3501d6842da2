package exporter

import (
	"io"
)

type Writer interface {
	io.Closer

	WriteTitle([]string) error
	Write([]string) error

	Flush() error
}

type Reader interface {
	Read() (record []string, err error)
}

type CloseFunc func() error

func (f CloseFunc) Close() error {
	if f == nil {
		return nil
	}
	return f()
}

func NoCloser() io.Closer {
	return CloseFunc(nil)
}
