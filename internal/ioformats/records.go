// Package ioformats reads and writes record batches, reports and URL seed
// lists.
package ioformats

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"b2b-market-scraper/internal/models"
)

// ErrUnsupportedFormat is returned for record files that are not .json,
// .csv, .ndjson or .jsonl.
var ErrUnsupportedFormat = errors.New("ioformats: unsupported file format")

type format int

const (
	formatJSON format = iota
	formatCSV
	formatNDJSON
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".csv":
		return formatCSV, nil
	case ".ndjson", ".jsonl":
		return formatNDJSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ReadRecords loads a record file. The table's columns are the known columns
// that appear in the file.
func ReadRecords(path string) (*models.Table, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var t *models.Table
	switch f {
	case formatJSON:
		t, err = DecodeJSON(fh)
	case formatCSV:
		t, err = decodeCSV(fh)
	case formatNDJSON:
		t, err = decodeNDJSON(fh)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadAll concatenates several record files. Columns are the union.
func ReadAll(paths ...string) (*models.Table, error) {
	out := &models.Table{}
	for _, p := range paths {
		t, err := ReadRecords(p)
		if err != nil {
			return nil, err
		}
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	present := map[string]bool{}
	for _, c := range out.Columns {
		present[c] = true
	}
	out.Columns = orderColumns(present)
	return out, nil
}

func fromObjects(objs []map[string]any) *models.Table {
	present := map[string]bool{}
	rows := make([]models.ProductRecord, len(objs))
	for i, obj := range objs {
		for k, v := range obj {
			if !isKnown(k) {
				continue
			}
			present[k] = true
			set(&rows[i], k, v)
		}
	}
	return &models.Table{Columns: orderColumns(present), Rows: rows}
}

// DecodeJSON reads a JSON array of record objects. Columns are the known
// keys that appear in any object.
func DecodeJSON(r io.Reader) (*models.Table, error) {
	var objs []map[string]any
	if err := json.NewDecoder(r).Decode(&objs); err != nil {
		return nil, err
	}
	return fromObjects(objs), nil
}

func decodeNDJSON(r io.Reader) (*models.Table, error) {
	var objs []map[string]any
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		objs = append(objs, obj)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fromObjects(objs), nil
}

func decodeCSV(r io.Reader) (*models.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &models.Table{}, nil
	}
	header := rows[0]
	present := map[string]bool{}
	for _, h := range header {
		if h = strings.TrimSpace(h); isKnown(h) {
			present[h] = true
		}
	}
	out := &models.Table{Columns: orderColumns(present), Rows: make([]models.ProductRecord, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		var rec models.ProductRecord
		for i, h := range header {
			h = strings.TrimSpace(h)
			if i < len(row) && present[h] {
				set(&rec, h, row[i])
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}

// WriteRecords writes t to path in the format named by its extension,
// creating parent directories. Only t's columns are written.
func WriteRecords(path string, t *models.Table) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	switch f {
	case formatJSON:
		err = EncodeJSON(w, t)
	case formatCSV:
		err = EncodeCSV(w, t)
	case formatNDJSON:
		err = EncodeNDJSON(w, t)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := fh.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// marshalRow encodes one row as a JSON object with keys in column order.
func marshalRow(r *models.ProductRecord, cols []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(c)
		v, err := json.Marshal(value(r, c))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeJSON writes t as an indented JSON array of objects.
func EncodeJSON(w io.Writer, t *models.Table) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalRow(&t.Rows[i], t.Columns)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func EncodeNDJSON(w io.Writer, t *models.Table) error {
	for i := range t.Rows {
		b, err := marshalRow(&t.Rows[i], t.Columns)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func EncodeCSV(w io.Writer, t *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	row := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j, c := range t.Columns {
			row[j] = cell(&t.Rows[i], c)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
