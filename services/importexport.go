package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/wordclimb/wordclimb-api/models"
	"github.com/wordclimb/wordclimb-api/utils"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult summarizes one import run.
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

var exportHeader = []string{"word", "translation", "difficulty"}

// ImportWords reads word rows from an uploaded CSV or Excel file.
// The first row must be a header containing at least "word" and
// "translation"; "difficulty" is optional and derived from length when
// blank. Duplicate and blank rows are skipped, not errors.
func ImportWords(db *gorm.DB, filename string, file io.Reader) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var rows [][]string
	var err error
	switch ext {
	case ".csv":
		rows, err = readCSV(file)
	case ".xlsx":
		rows, err = readExcel(file)
	case ".xls":
		// excelize only reads OOXML workbooks.
		return nil, fmt.Errorf("legacy .xls is not supported, save as .xlsx: %w", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("unsupported file format %q, use .csv or .xlsx: %w", ext, ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty: %w", ErrInvalidInput)
	}

	cols, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows[1:] {
		result.TotalProcessed++

		word := cellAt(row, cols["word"])
		translation := cellAt(row, cols["translation"])
		if word == "" || translation == "" {
			result.Skipped++
			continue
		}

		var count int64
		if err := db.Model(&models.Word{}).Where("word = ?", word).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		difficulty := 0
		if col, ok := cols["difficulty"]; ok {
			if raw := cellAt(row, col); raw != "" {
				difficulty, err = strconv.Atoi(raw)
				if err != nil || difficulty < 1 || difficulty > 4 {
					result.Errors = append(result.Errors, fmt.Sprintf("row %d: bad difficulty %q", i+2, raw))
					result.Skipped++
					continue
				}
			}
		}
		if difficulty == 0 {
			difficulty = utils.CalculateDifficulty(word)
		}

		entry := models.Word{Word: word, Translation: translation, Difficulty: difficulty}
		if err := db.Create(&entry).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			result.Skipped++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ExportWords writes the whole catalog to a temp file in the requested
// format and returns its path. The caller removes the file after
// serving it.
func ExportWords(db *gorm.DB, format string) (string, error) {
	var words []models.Word
	if err := db.Order("id asc").Find(&words).Error; err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(words)+1)
	rows = append(rows, exportHeader)
	for _, w := range words {
		rows = append(rows, []string{w.Word, w.Translation, strconv.Itoa(w.Difficulty)})
	}

	return writeTempFile("words", format, rows)
}

// TemplateFile writes a small import template and returns its path.
func TemplateFile(format string) (string, error) {
	rows := [][]string{
		exportHeader,
		{"example", "例子", "1"},
		{"template", "模板", "2"},
		{"dictionary", "字典", "3"},
	}
	return writeTempFile("word_import_template", format, rows)
}

func readCSV(file io.Reader) ([][]string, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %v: %w", err, ErrInvalidInput)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readExcel(file io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("opening Excel file: %v: %w", err, ErrInvalidInput)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading Excel rows: %v: %w", err, ErrInvalidInput)
	}
	return rows, nil
}

// headerColumns maps the lowercased header names to column indexes and
// verifies the required columns are present.
func headerColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"word", "translation"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q: %w", required, ErrInvalidInput)
		}
	}
	return cols, nil
}

func cellAt(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func writeTempFile(base, format string, rows [][]string) (string, error) {
	// nanoid suffix keeps concurrent downloads from clobbering each
	// other in the shared temp dir.
	suffix, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	switch format {
	case "", "csv":
		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.csv", base, suffix))
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		writer := csv.NewWriter(f)
		if err := writer.WriteAll(rows); err != nil {
			f.Close()
			return "", err
		}
		writer.Flush()
		if err := f.Close(); err != nil {
			return "", err
		}
		return path, nil

	case "excel", "xlsx":
		path := filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.xlsx", base, suffix))
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return "", err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return "", err
			}
		}
		if err := f.SaveAs(path); err != nil {
			return "", err
		}
		return path, nil

	default:
		return "", fmt.Errorf("unsupported export format %q, use csv or excel: %w", format, ErrInvalidInput)
	}
}
