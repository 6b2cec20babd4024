package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/models"
	"github.com/Fraol7/FoodWagen/store"
	"github.com/Fraol7/FoodWagen/validation"
	"github.com/xuri/excelize/v2"
)

// columns maps a normalized header cell to a FoodInput field.
var columns = map[string]string{
	"name":         "name",
	"restaurant":   "restaurant",
	"price":        "price",
	"rating":       "rating",
	"status":       "status",
	"deliverytype": "deliveryType",
	"delivery":     "deliveryType",
	"image":        "image",
	"logo":         "logo",
	"category":     "category",
}

type row struct {
	Line  int
	Input models.FoodInput
	Err   error
}

func readRows(r io.Reader, filename, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r, sheet)
	}
	return nil, fmt.Errorf("unsupported file type %q: use .csv or .xlsx", filepath.Ext(filename))
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

// readXLSX reads sheet, or the first sheet when sheet is empty.
func readXLSX(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func normalizeHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	h = strings.NewReplacer("_", "", "-", "", " ", "").Replace(h)
	return h
}

// parseRows turns the data rows into create payloads using the first row as
// the header. Unknown columns are ignored; empty cells are left absent.
func parseRows(rows [][]string) ([]row, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	fields := make([]string, len(rows[0]))
	found := false
	for i, cell := range rows[0] {
		fields[i] = columns[normalizeHeader(cell)]
		if fields[i] != "" {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("header row has no known columns")
	}

	out := make([]row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if blank(cells) {
			continue
		}
		r := row{Line: i + 2}
		r.Input, r.Err = parseRow(fields, cells)
		out = append(out, r)
	}
	return out, nil
}

func parseRow(fields, cells []string) (models.FoodInput, error) {
	var in models.FoodInput
	for i, field := range fields {
		if field == "" || i >= len(cells) {
			continue
		}
		v := strings.TrimSpace(cells[i])
		if v == "" {
			continue
		}
		switch field {
		case "name":
			in.Name = models.String(v)
		case "restaurant":
			in.Restaurant = models.String(v)
		case "price", "rating":
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return in, fmt.Errorf("%s %q is not a number", field, v)
			}
			if math.IsInf(n, 0) || math.IsNaN(n) {
				return in, fmt.Errorf("%s %q is not a finite number", field, v)
			}
			if field == "price" {
				in.Price = models.Float(n)
			} else {
				in.Rating = models.Float(n)
			}
		case "status":
			in.Status = models.StatusPtr(models.Status(v))
		case "deliveryType":
			in.DeliveryType = models.DeliveryTypePtr(models.DeliveryType(v))
		case "image":
			in.Image = models.String(v)
		case "logo":
			in.Logo = models.String(v)
		case "category":
			in.Category = models.String(v)
		}
	}
	return in, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// importRows validates and stores every row. Bad rows are logged and
// skipped; a storage failure stops the import.
func importRows(ctx context.Context, s store.FoodStore, log *helper.Logger, rows []row) (created, skipped int, err error) {
	for _, r := range rows {
		if r.Err != nil {
			log.Warn("", "row_skipped", fmt.Sprintf("Row %d skipped: %v", r.Line, r.Err), "line", r.Line)
			skipped++
			continue
		}
		food, verr := validation.NewFood(r.Input)
		if verr != nil {
			log.Warn("", "row_skipped", fmt.Sprintf("Row %d skipped: %v", r.Line, verr), "line", r.Line)
			skipped++
			continue
		}
		stored, serr := s.Create(ctx, food)
		if serr != nil {
			return created, skipped, fmt.Errorf("row %d: %w", r.Line, serr)
		}
		log.Debug("", "row_imported", "Imported "+stored.Name, "line", r.Line, "food_id", stored.ID)
		created++
	}
	return created, skipped, nil
}
