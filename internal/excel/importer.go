package excel

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/quizbot/internal/database"
	"github.com/example/quizbot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel, CSV or JSON file
	IDColumn          string // Column with the question ID
	CategoryColumn    string // Column with the category
	TextColumn        string // Column with the question text
	OptionAColumn     string // Columns with the option texts
	OptionBColumn     string
	OptionCColumn     string
	OptionDColumn     string
	CorrectColumn     string // Column with the correct option key
	ExplanationColumn string // Column with the explanation
	HintColumn        string // Column with the hint
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:          "A",
		CategoryColumn:    "B",
		TextColumn:        "C",
		OptionAColumn:     "D",
		OptionBColumn:     "E",
		OptionCColumn:     "F",
		OptionDColumn:     "G",
		CorrectColumn:     "H",
		ExplanationColumn: "I",
		HintColumn:        "J",
		SheetName:         "Sheet1",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportQuestions imports questions from an Excel, CSV or JSON file
func ImportQuestions(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	switch ext {
	case ".csv":
		return importFromCSV(config)
	case ".json":
		return importFromJSON(config)
	default:
		return importFromExcel(config)
	}
}

// importFromExcel imports questions from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	questionRepo := database.NewQuestionRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		q, err := questionFromRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}

		if err := questionRepo.Upsert(q); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// importFromCSV imports questions from a CSV file with the same column layout
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	questionRepo := database.NewQuestionRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		q, err := questionFromRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		if err := questionRepo.Upsert(q); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// importFromJSON imports questions from a JSON seed file: an array of
// fully-formed question payloads.
func importFromJSON(config ImportConfig) (*ImportResult, error) {
	data, err := os.ReadFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %v", err)
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %v", err)
	}

	questionRepo := database.NewQuestionRepository()
	result := &ImportResult{
		Errors: make([]string, 0),
	}

	for i := range questions {
		result.TotalProcessed++
		q := &questions[i]

		if q.ID == "" || q.Text == "" || q.CorrectOption == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: missing id, text or correct option", i+1))
			continue
		}

		if err := questionRepo.Upsert(q); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// SeedIfEmpty imports the given file only when the catalog has no questions
func SeedIfEmpty(filePath string) (*ImportResult, error) {
	questionRepo := database.NewQuestionRepository()
	count, err := questionRepo.Count()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &ImportResult{}, nil
	}

	config := DefaultImportConfig()
	config.FilePath = filePath
	return ImportQuestions(config)
}

// questionFromRow builds a question from one spreadsheet row
func questionFromRow(row []string, config ImportConfig) (*models.Question, error) {
	id := cellValue(row, config.IDColumn)
	text := cellValue(row, config.TextColumn)
	correct := strings.ToUpper(cellValue(row, config.CorrectColumn))

	if id == "" || text == "" {
		return nil, fmt.Errorf("missing id or question text")
	}

	options := map[string]string{}
	for key, col := range map[string]string{
		"A": config.OptionAColumn,
		"B": config.OptionBColumn,
		"C": config.OptionCColumn,
		"D": config.OptionDColumn,
	} {
		if v := cellValue(row, col); v != "" {
			options[key] = v
		}
	}

	if len(options) < 2 {
		return nil, fmt.Errorf("question needs at least two options")
	}
	if _, ok := options[correct]; !ok {
		return nil, fmt.Errorf("correct option %q is not among the options", correct)
	}

	category := cellValue(row, config.CategoryColumn)
	if category == "" {
		category = "Ogólne"
	}

	return &models.Question{
		ID:            id,
		Category:      category,
		Text:          text,
		Options:       options,
		CorrectOption: correct,
		Explanation:   cellValue(row, config.ExplanationColumn),
		Hint:          cellValue(row, config.HintColumn),
	}, nil
}

func cellValue(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// columnToIndex converts a column letter (A, B, ..., AA) to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return -1
	}

	index := 0
	for _, c := range column {
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A') + 1
	}
	return index - 1
}
