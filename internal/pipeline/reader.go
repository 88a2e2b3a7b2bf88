package pipeline

// reader.go turns a source file into raw rows. Readers are pure: they never
// write anything and report problems as errors for the orchestrator to
// record against the file.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// supportedExtensions are the file formats the pipeline accepts.
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// Reader extracts raw records from delimited-text and spreadsheet files
// located under the configured input directory.
type Reader struct {
	inputDir string
}

// NewReader creates a reader rooted at inputDir.
func NewReader(inputDir string) *Reader {
	return &Reader{inputDir: inputDir}
}

// ResolvePath resolves a file reference against the input directory.
// Absolute paths and paths that already include the input directory are
// used as-is.
func (r *Reader) ResolvePath(path string) string {
	path = filepath.Clean(path)
	if filepath.IsAbs(path) {
		return path
	}
	if r.inputDir == "" {
		return path
	}
	if strings.HasPrefix(path, filepath.Clean(r.inputDir)+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(r.inputDir, path)
}

// Read extracts the raw record set from a file. sheet selects the worksheet
// for spreadsheet formats and is ignored for CSV; an empty or missing sheet
// name falls back to the workbook's default sheet.
func (r *Reader) Read(path, sheet string) ([]Record, error) {
	resolved := r.ResolvePath(path)

	if _, err := os.Stat(resolved); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, resolved)
		}
		return nil, fmt.Errorf("stat %s: %w", resolved, err)
	}

	ext := strings.ToLower(filepath.Ext(resolved))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	var rows [][]string
	var err error
	switch ext {
	case ".csv":
		rows, err = readCSV(resolved)
	case ".xls":
		rows, err = readLegacyWorkbook(resolved, sheet)
	default:
		rows, err = readSpreadsheet(resolved, sheet)
	}
	if err != nil {
		return nil, err
	}

	return BuildRecords(rows), nil
}

// ListFiles returns the names of supported files in the input directory,
// sorted by the directory listing order.
func (r *Reader) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(r.inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// readCSV reads a delimited-text file. Files are expected in UTF-8; when the
// bytes are not valid UTF-8 the legacy Windows-1251 encoding is tried before
// giving up.
func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	if !utf8.Valid(data) {
		decoded, derr := charmap.Windows1251.NewDecoder().Bytes(data)
		if derr != nil {
			return nil, fmt.Errorf("decode %s: %w", path, derr)
		}
		data = decoded
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	return rows, nil
}

// readSpreadsheet reads rows from a named worksheet. Sheet resolution is an
// explicit two-step: if the named sheet does not exist the workbook's first
// sheet is used instead; any other error propagates unchanged.
func readSpreadsheet(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	name := sheet
	if name == "" {
		name = f.GetSheetName(0)
	} else if idx, _ := f.GetSheetIndex(name); idx < 0 {
		name = f.GetSheetName(0)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", name, path, err)
	}
	return rows, nil
}

// readLegacyWorkbook reads a binary (BIFF) workbook, which excelize cannot
// parse. Sheet resolution mirrors readSpreadsheet: an absent sheet name falls
// back to the workbook's first sheet.
func readLegacyWorkbook(path, sheet string) ([][]string, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	index := 0
	if sheet != "" {
		for i := 0; i < wb.GetNumberSheets(); i++ {
			if s, err := wb.GetSheet(i); err == nil && s.GetName() == sheet {
				index = i
				break
			}
		}
	}

	ws, err := wb.GetSheet(index)
	if err != nil {
		return nil, fmt.Errorf("read sheet of %s: %w", path, err)
	}

	var rows [][]string
	for i := 0; i <= ws.GetNumberRows(); i++ {
		row, err := ws.GetRow(i)
		if err != nil || row == nil {
			continue
		}
		var cells []string
		for _, c := range row.GetCols() {
			cells = append(cells, c.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
