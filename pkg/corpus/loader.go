package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"soros-rag-be/internal/entity"
)

// ErrCorpusLoad is returned (wrapped) for every fatal loading problem.
var ErrCorpusLoad = errors.New("corpus load failed")

// RequiredColumns must all be present in the header row. Matching ignores case and surrounding space.
var RequiredColumns = []string{"Label", "Question", "Answer"}

// Load reads the Q&A table at path. The format is chosen by extension: .xlsx/.xlsm via excelize, .csv otherwise.
// Rows with an empty question or answer are dropped and ids are assigned by position among the kept rows.
func Load(path string) ([]entity.CorpusEntry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: source %q: %v", ErrCorpusLoad, path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported source format %q", ErrCorpusLoad, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorpusLoad, err)
	}

	return FromRows(rows)
}

// FromRows validates a header-first table and converts it into corpus entries.
func FromRows(rows [][]string) ([]entity.CorpusEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: source has no header row", ErrCorpusLoad)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	cols := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		i, ok := index[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrCorpusLoad, name)
		}
		cols[name] = i
	}

	entries := make([]entity.CorpusEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		question := cell(row, cols["Question"])
		answer := cell(row, cols["Answer"])
		if question == "" || answer == "" {
			continue
		}
		entries = append(entries, entity.CorpusEntry{
			Id:       len(entries),
			Label:    cell(row, cols["Label"]),
			Question: question,
			Answer:   answer,
		})
	}

	return entries, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}
