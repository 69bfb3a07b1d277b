// Package export streams list screens as CSV downloads.
package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	flushEvery = 200
	bufferSize = 32 * 1024
)

// utf8BOM makes spreadsheet software detect UTF-8 for accented names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errNotInitialised = errors.New("csv streamer not initialised")

type Streamer struct {
	buf     *bufio.Writer
	csv     *csv.Writer
	written int
}

func NewStreamer(w io.Writer) *Streamer {
	buf := bufio.NewWriterSize(w, bufferSize)
	return &Streamer{buf: buf, csv: csv.NewWriter(buf)}
}

func (s *Streamer) WriteRow(row []string) error {
	if s == nil || s.csv == nil {
		return errNotInitialised
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.written++
	if s.written%flushEvery == 0 {
		return s.Flush()
	}
	return nil
}

func (s *Streamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return errNotInitialised
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	return s.buf.Flush()
}

// Table is anything that can be exported as a header plus rows.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Write renders table to w as CSV.
func Write(w io.Writer, table Table) error {
	s := NewStreamer(w)
	if err := s.WriteRow(table.Header()); err != nil {
		return err
	}
	for _, row := range table.Rows() {
		if err := s.WriteRow(row); err != nil {
			return err
		}
	}
	return s.Flush()
}

// ServeCSV writes table as an attachment named <name>_<date>.csv.
func ServeCSV(w http.ResponseWriter, name string, table Table) error {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	return Write(w, table)
}

// Rows adapts a slice plus a row mapper into a Table.
type Rows[T any] struct {
	Columns []string
	Items   []T
	Row     func(T) []string
}

func (r Rows[T]) Header() []string { return r.Columns }

func (r Rows[T]) Rows() [][]string {
	out := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, r.Row(it))
	}
	return out
}
