package roster

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var validate = validator.New()

// fieldColumns maps struct fields back to the CSV headers they come from.
var fieldColumns = map[string]string{
	"Name":     ColumnName,
	"ID":       ColumnID,
	"Username": ColumnUsername,
}

// LoadFile reads a roster CSV from disk.
func LoadFile(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return Load(fp)
}

// Load parses a roster CSV. The header is checked for the required columns
// before any row is read; extra columns are ignored. Any row with an empty
// required field fails the whole load.
func Load(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		if _, seen := cols[h]; !seen {
			cols[h] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	get := func(row []string, name string) string {
		if idx := cols[name]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var out []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rec := Record{
			Line:     line,
			Name:     get(row, ColumnName),
			ID:       get(row, ColumnID),
			Username: get(row, ColumnUsername),
		}
		if err := validateRecord(rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func validateRecord(rec Record) error {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldColumns[fe.StructField()])
	}
	return &RecordError{Line: rec.Line, Fields: fields}
}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}
