package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls how a source file is decoded.
type Options struct {
	// Encoding is an IANA charset name. Empty or UTF-8 reads bytes as-is.
	Encoding string
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// Sheet selects the worksheet of an .xlsx source. Empty means the first.
	Sheet string
}

// DefaultOptions matches the sample sales export: Latin-1, comma separated.
func DefaultOptions() Options {
	return Options{
		Encoding:  "ISO-8859-1",
		Delimiter: ',',
	}
}

// Load reads the table at path. Files ending in .xlsx are read as
// workbooks; everything else is parsed as delimited text.
func Load(ctx context.Context, path string, opts Options) (*Table, error) {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &NotFoundError{Path: path, Err: errors.New("is a directory")}
	}

	var table *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = loadWorkbook(path, opts.Sheet)
	default:
		table, err = loadDelimited(path, opts)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Int("rows", table.Len()).
		Strs("columns", table.Header).
		Msg("loaded table")

	return table, nil
}

func loadDelimited(path string, opts Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	defer file.Close()

	table, err := LoadReader(file, opts)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return table, nil
}

// LoadReader parses delimited text from r. The first record is the header.
func LoadReader(r io.Reader, opts Options) (*Table, error) {
	decoded, err := decodeReader(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		rows = append(rows, record)
	}

	return NewTable(header, rows), nil
}
