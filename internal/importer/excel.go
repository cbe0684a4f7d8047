package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// lockFilePrefix marks editor temp/lock files that must never be read.
const lockFilePrefix = "~$"

// ListSourceFiles returns the spreadsheet paths under dir matching the
// glob pattern, with lock files excluded and the order made stable.
func ListSourceFiles(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad file pattern %q: %w", pattern, err)
	}

	var files []string
	for _, m := range matches {
		if strings.HasPrefix(filepath.Base(m), lockFilePrefix) {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// ReadWorkbook loads the first sheet of an xlsx file into a Dataset.
// The first row is the header. Cells are read raw so date-typed cells
// arrive as their Excel serial numbers instead of a locale-dependent
// rendering; coercion happens in the cleaner.
func ReadWorkbook(path string) (Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}
	rows, err := f.GetRows("Sheet1", raw)
	if err != nil {
		// Try first sheet if Sheet1 fails
		sheets := f.GetSheetList()
		if len(sheets) > 0 {
			rows, err = f.GetRows(sheets[0], raw)
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
		}
	}
	if len(rows) == 0 {
		return Dataset{}, nil
	}

	ds := Dataset{}
	for _, h := range rows[0] {
		ds.Columns = append(ds.Columns, strings.TrimSpace(h))
	}

	name := filepath.Base(path)
	for i := 1; i < len(rows); i++ {
		cells := make(map[string]string)
		for j, v := range rows[i] {
			if j >= len(ds.Columns) || ds.Columns[j] == "" {
				continue
			}
			cells[ds.Columns[j]] = v
		}
		ds.Rows = append(ds.Rows, Row{File: name, Line: i + 1, Cells: cells})
	}
	return ds, nil
}
