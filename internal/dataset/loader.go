// Package dataset loads the transaction records the dashboard aggregates.
//
// Records come from a JSON array or a CSV file with a header row. When no
// path is configured the sample dataset bundled into the binary is used.
package dataset

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

//go:embed data.json
var embedded []byte

const dateLayout = "2006-01-02"

var csvColumns = []string{"id", "product", "category", "country", "quantity", "price", "date"}

// Embedded returns the bundled sample dataset.
func Embedded() ([]models.Transaction, error) {
	return DecodeJSON(bytes.NewReader(embedded))
}

// Load reads records from path, choosing the decoder by file extension, and
// validates them. An empty path loads the embedded dataset.
func Load(ctx context.Context, path string) ([]models.Transaction, error) {
	var (
		records []models.Transaction
		err     error
	)

	if path == "" {
		records, err = Embedded()
	} else {
		records, err = loadFile(ctx, path)
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(records); err != nil {
		return nil, err
	}
	return records, nil
}

func loadFile(ctx context.Context, path string) ([]models.Transaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(file)
	case ".csv":
		return DecodeCSV(ctx, file)
	default:
		return nil, apperrors.Validation(fmt.Sprintf("unsupported dataset format %q", filepath.Ext(path)))
	}
}

type jsonRecord struct {
	ID       json.RawMessage `json:"id"`
	Product  string          `json:"product"`
	Category string          `json:"category"`
	Country  string          `json:"country"`
	Quantity int             `json:"quantity"`
	Price    float64         `json:"price"`
	Date     string          `json:"date"`
}

// DecodeJSON reads a JSON array of records. Identifiers may be numbers or
// strings.
func DecodeJSON(r io.Reader) ([]models.Transaction, error) {
	var raw []jsonRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json dataset: %w", err)
	}

	records := make([]models.Transaction, 0, len(raw))
	for i, rec := range raw {
		id, err := decodeID(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, models.Transaction{
			ID:       id,
			Product:  rec.Product,
			Category: rec.Category,
			Country:  rec.Country,
			Quantity: rec.Quantity,
			Price:    rec.Price,
			Date:     rec.Date,
		})
	}
	return records, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode id: %w", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode id: %w", err)
	}
	return n.String(), nil
}

// DecodeCSV reads records from CSV with a header row naming at least the
// columns id, product, category, country, quantity, price and date, in any
// order.
func DecodeCSV(ctx context.Context, r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, apperrors.Validation("empty dataset file")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, apperrors.Validation(fmt.Sprintf("missing csv column %q", col))
		}
	}

	var records []models.Transaction
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		field := func(col string) string {
			return strings.TrimSpace(row[index[col]])
		}

		quantity, err := strconv.Atoi(field("quantity"))
		if err != nil {
			return nil, apperrors.ValidationWrap(err, fmt.Sprintf("line %d: invalid quantity", line))
		}
		price, err := strconv.ParseFloat(field("price"), 64)
		if err != nil {
			return nil, apperrors.ValidationWrap(err, fmt.Sprintf("line %d: invalid price", line))
		}

		records = append(records, models.Transaction{
			ID:       field("id"),
			Product:  field("product"),
			Category: field("category"),
			Country:  field("country"),
			Quantity: quantity,
			Price:    price,
			Date:     field("date"),
		})
	}

	if len(records) == 0 {
		return nil, apperrors.Validation("no records found")
	}
	return records, nil
}

// Validate checks the invariants the aggregation relies on: unique
// identifiers, non-negative quantity and price, and YYYY-MM-DD dates.
func Validate(records []models.Transaction) error {
	seen := make(map[string]int, len(records))
	for i, tx := range records {
		if tx.ID == "" {
			return invalidRecord(i, tx, "missing id", nil)
		}
		if first, dup := seen[tx.ID]; dup {
			return invalidRecord(i, tx, fmt.Sprintf("duplicate id, first seen at record %d", first), nil)
		}
		seen[tx.ID] = i

		if tx.Quantity < 0 {
			return invalidRecord(i, tx, "negative quantity", nil)
		}
		if tx.Price < 0 {
			return invalidRecord(i, tx, "negative price", nil)
		}
		if _, err := time.Parse(dateLayout, tx.Date); err != nil {
			return invalidRecord(i, tx, fmt.Sprintf("invalid date %q", tx.Date), err)
		}
	}
	return nil
}

func invalidRecord(index int, tx models.Transaction, reason string, cause error) error {
	appErr := apperrors.Validation(fmt.Sprintf("invalid record %d", index))
	appErr.Details = fmt.Sprintf("id=%q: %s", tx.ID, reason)
	appErr.Cause = cause
	return appErr
}
