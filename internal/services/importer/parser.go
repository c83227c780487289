// Package importer handles CSV and XLSX upload parsing
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/findosh/holdings/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: upload a .csv or .xlsx file")
	ErrEmptyFile         = errors.New("file is empty")
	ErrFileTooLarge      = errors.New("file is too large")
)

// Supported formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// DefaultMaxBytes caps uploads when no limit is configured
const DefaultMaxBytes = 10 << 20

// ParseResult contains the result of parsing an uploaded file
type ParseResult struct {
	Table       models.Table
	Filename    string
	Format      string
	Fingerprint string
}

// Service handles file import operations
type Service struct {
	maxBytes int64
	log      zerolog.Logger
}

// NewService creates a new import service
func NewService(maxBytes int64, log zerolog.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Service{
		maxBytes: maxBytes,
		log:      log.With().Str("service", "importer").Logger(),
	}
}

// DetectFormat picks the parser from the file extension
func DetectFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", ErrUnsupportedFormat
}

// Load reads an uploaded file and parses it into a table keyed by its header row
func (s *Service) Load(ctx context.Context, filename string, r io.Reader) (*ParseResult, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d MB", ErrFileTooLarge, s.maxBytes>>20)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readCSV(data)
	case FormatXLSX:
		records, err = readXLSX(data)
	}
	if err != nil {
		return nil, err
	}

	table, err := buildTable(records)
	if err != nil {
		return nil, err
	}

	sum := blake2b.Sum256(data)
	res := &ParseResult{
		Table:       table,
		Filename:    filepath.Base(filename),
		Format:      format,
		Fingerprint: hex.EncodeToString(sum[:]),
	}

	s.log.Info().
		Str("filename", res.Filename).
		Str("format", format).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns)).
		Msg("Parsed upload")

	return res, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		decoded, err := decodeWindows1252(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}
	return records, nil
}

func buildTable(records [][]string) (models.Table, error) {
	headerIdx, header := findHeader(records)
	if headerIdx < 0 {
		return models.Table{}, ErrEmptyFile
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	table := models.NewTable(cols...)

	for _, rec := range records[headerIdx+1:] {
		if isBlankRow(rec) {
			continue
		}
		row := make(models.Row, len(cols))
		copy(row, rec)
		table.Rows = append(table.Rows, row)
	}

	if table.Len() == 0 {
		return models.Table{}, ErrEmptyFile
	}
	return table, nil
}

// findHeader returns the first row naming at least two expected columns.
// Exports with a preamble above the header are common; when no row matches,
// the first non-blank row is the header.
func findHeader(records [][]string) (int, []string) {
	first := -1
	for i, row := range records {
		if isBlankRow(row) {
			continue
		}
		if first < 0 {
			first = i
		}

		matches := 0
		for _, cell := range row {
			for _, col := range models.ExpectedColumns {
				if strings.TrimSpace(cell) == col {
					matches++
				}
			}
		}
		if matches >= 2 {
			return i, row
		}
	}
	if first < 0 {
		return -1, nil
	}
	return first, records[first]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if !models.IsMissing(c) {
			return false
		}
	}
	return true
}
