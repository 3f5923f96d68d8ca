// Package inventory reads the dealer inventory export and groups it by
// dealership.
package inventory

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"dealerfeeds/internal/models"
)

// Reader errors.
var (
	ErrMissingHeader = errors.New("inventory has no header row")
	ErrEmptyHeader   = errors.New("inventory header has no column names")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader decodes a header driven CSV export into vehicle records.
type Reader struct {
	csv     *csv.Reader
	headers []string
	line    int
}

// NewReader wraps r, discarding a leading UTF-8 byte-order mark, and reads
// the header row.
func NewReader(r io.Reader) (*Reader, error) {
	buf := bufio.NewReader(r)

	prefix, err := buf.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	if len(prefix) == len(utf8BOM) && string(prefix) == string(utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	headers := make([]string, len(header))
	named := 0

	for i, h := range header {
		headers[i] = strings.TrimSpace(h)
		if headers[i] != "" {
			named++
		}
	}

	if named == 0 {
		return nil, ErrEmptyHeader
	}

	return &Reader{csv: cr, headers: headers, line: 1}, nil
}

// Read returns the next record, or io.EOF. Columns beyond the header are
// ignored and short rows simply lack the trailing fields.
func (r *Reader) Read() (models.VehicleRecord, error) {
	fields, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	r.line++

	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", r.line, err)
	}

	record := make(models.VehicleRecord, len(r.headers))

	for i, value := range fields {
		if i >= len(r.headers) {
			break
		}

		if r.headers[i] == "" {
			continue
		}

		record[r.headers[i]] = value
	}

	return record, nil
}

// ReadRecords reads every record from r.
func ReadRecords(r io.Reader) ([]models.VehicleRecord, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	var records []models.VehicleRecord

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}
}

// ReadFile reads every record from the CSV file at path.
func ReadFile(path string) ([]models.VehicleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory: %w", err)
	}
	defer f.Close()

	return ReadRecords(f)
}
