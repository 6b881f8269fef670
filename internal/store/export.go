package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/listfy/listfy/internal/errors"
	"github.com/listfy/listfy/internal/list"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on id collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite colliding lists
	ImportModeRename  ImportMode = "rename"  // mint fresh ids, always append
)

// ExportHeader is the first line of a JSONL backup file.
type ExportHeader struct {
	ListfyExport  bool   `json:"_listfy_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
}

// ImportError describes one rejected line of an import file.
type ImportError struct {
	Line    int    `json:"line"`
	ListID  string `json:"list_id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Export writes every list (archived included) to a JSONL backup: a
// header line followed by one list per line. The file is written to a
// temp path and renamed into place so a failure never clobbers an
// existing backup.
func (s *Store) Export(path string) (*ExportOutput, error) {
	if path == "" {
		return nil, errors.NewValidation("export path is required")
	}

	lists := s.Lists()
	now := time.Now().Unix()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	tempPath := path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	w := bufio.NewWriter(file)

	header := ExportHeader{ListfyExport: true, SchemaVersion: "1.0", ExportedAt: now}
	if err := writeJSONLine(w, header); err != nil {
		return nil, err
	}
	for _, l := range lists {
		if err := writeJSONLine(w, l); err != nil {
			return nil, err
		}
	}

	if err := w.Flush(); err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		file = nil
		return nil, errors.NewInternal(err)
	}
	file = nil

	if err := os.Rename(tempPath, path); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export file: %w", err))
	}
	success = true

	return &ExportOutput{Path: path, Count: len(lists), ExportedAt: now}, nil
}

func writeJSONLine(w *bufio.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Import reads lists from a JSONL backup produced by Export.
// Mode error is atomic: any id collision or parse error imports nothing.
func (s *Store) Import(path string, mode ImportMode) (*ImportOutput, error) {
	if path == "" {
		return nil, errors.NewValidation("import path is required")
	}
	if mode == "" {
		mode = ImportModeError
	}
	if mode != ImportModeError && mode != ImportModeReplace && mode != ImportModeRename {
		return nil, errors.NewValidation("mode must be one of: error, replace, rename")
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewValidation(fmt.Sprintf("import file does not exist: %s", path))
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseBackupFile(file)

	if mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	s.mu.Lock()
	out := &ImportOutput{Errors: parseErrors}

	if mode == ImportModeError {
		for i, rec := range records {
			if s.findLocked(rec.ID) != nil {
				out.Errors = append(out.Errors, ImportError{
					Line:    i + 2, // header is line 1
					ListID:  rec.ID,
					Code:    "LIST_EXISTS",
					Message: fmt.Sprintf("list %s already exists", rec.ID),
				})
			}
		}
		if len(out.Errors) > 0 {
			s.mu.Unlock()
			return out, nil
		}
	}

	for _, rec := range records {
		switch mode {
		case ImportModeReplace:
			if existing := s.findLocked(rec.ID); existing != nil {
				*existing = *rec
				out.Imported++
				continue
			}
			s.lists = append(s.lists, rec)
			out.Imported++
		case ImportModeRename:
			if err := remintIDs(rec); err != nil {
				out.Skipped++
				out.Errors = append(out.Errors, ImportError{
					ListID:  rec.ID,
					Code:    "INTERNAL",
					Message: err.Error(),
				})
				continue
			}
			s.lists = append(s.lists, rec)
			out.Imported++
		default: // ImportModeError, collisions already ruled out
			s.lists = append(s.lists, rec)
			out.Imported++
		}
	}

	s.ensureActiveLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.scheduleSave(snapshot)
	return out, nil
}

// parseBackupFile parses a JSONL backup into list records.
func parseBackupFile(file *os.File) ([]*list.List, []ImportError) {
	var records []*list.List
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		if lineNum == 1 {
			var header ExportHeader
			if err := json.Unmarshal(line, &header); err == nil && header.ListfyExport {
				continue
			}
			parseErrors = append(parseErrors, ImportError{
				Line:    1,
				Code:    "INVALID_HEADER",
				Message: "missing listfy export header",
			})
			continue
		}

		var rec list.List
		if err := json.Unmarshal(line, &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}
		if rec.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}
		if rec.Items == nil {
			rec.Items = []*list.Item{}
		}
		records = append(records, &rec)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: err.Error(),
		})
	}

	return records, parseErrors
}

// remintIDs assigns fresh ids to an imported list and its items.
func remintIDs(l *list.List) error {
	id, err := generateULID()
	if err != nil {
		return err
	}
	l.ID = id
	for _, it := range l.Items {
		itemID, err := generateULID()
		if err != nil {
			return err
		}
		it.ID = itemID
	}
	return nil
}
