package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ErrEmptyUpload marks uploads carrying no data rows, either a zero-byte
// file or a bare header. Handlers treat it as a client input error.
var ErrEmptyUpload = errors.New("upload contains no data rows")

// ParseError marks stream-level failures in the uploaded file. The insert
// loop runs without a transaction, so rows read before the failure stay
// committed.
type ParseError struct {
	reason error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse upload: %v", e.reason)
}

func (e ParseError) Unwrap() error {
	return e.reason
}

func IsParseError(err error) bool {
	var pe ParseError
	return errors.As(err, &pe)
}

// Row is one data row keyed by header column name.
type Row map[string]string

// RowReader streams delimited rows from an upload, one map per data line.
type RowReader struct {
	header []string
	reader *csv.Reader
}

// NewRowReader consumes the header line. A zero-byte file is ErrEmptyUpload.
func NewRowReader(r io.Reader) (*RowReader, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyUpload
	}
	if err != nil {
		return nil, ParseError{reason: err}
	}

	return &RowReader{header: header, reader: reader}, nil
}

func (rr *RowReader) Header() []string {
	return rr.header
}

// Next returns the next data row, io.EOF at end of input, or a ParseError
// on corrupt content such as ragged lines.
func (rr *RowReader) Next() (Row, error) {
	record, err := rr.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, ParseError{reason: err}
	}

	row := make(Row, len(rr.header))
	for i, col := range rr.header {
		if i < len(record) {
			row[col] = record[i]
		}
	}
	return row, nil
}
