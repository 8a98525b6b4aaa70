package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// delimiterCandidates is the auto-detect set from §6.
var delimiterCandidates = []rune{',', '\t', '|', ';'}

// Reader reads a character-delimited or JSON-lines tabular source into rows.
// Go's standard library has no third-party competitor in this corpus for a
// delimited-row reader, so the delimited dialect is built on encoding/csv
// with a detected or configured delimiter; the JSON-lines dialect reuses
// gjson, already a direct dependency via pkg/jsonpath.
type Reader struct {
	Delimiter      rune
	SkipFirstLine  bool
	SkipEmptyLines bool
	Columns        []string
	Rename         map[string]string
}

// ReadResult is the product of Reader.Read: materialised rows plus any
// non-fatal parse warnings collected along the way.
type ReadResult struct {
	Rows     []*Row
	Warnings []string
}

// Read opens path and parses it according to the Reader's options. It fails
// with ErrSourceMissing (the file can't be opened), ErrNoData (it opened but
// produced zero rows), or the underlying read error; non-object JSON lines
// become warnings.
func (r *Reader) Read(path string) (*ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrSourceMissing
	}
	defer f.Close()

	var result *ReadResult
	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		result, err = r.readJSONLines(f)
	} else {
		result, err = r.readDelimited(f)
	}
	if err != nil {
		return nil, err
	}

	for _, w := range result.Warnings {
		log.Printf("data: %s: %s", path, w)
	}

	if len(result.Rows) == 0 {
		return result, ErrNoData
	}
	return result, nil
}

func (r *Reader) readDelimited(f *os.File) (*ReadResult, error) {
	delim := r.Delimiter
	if delim == 0 {
		detected, err := detectDelimiter(f)
		if err != nil {
			return nil, err
		}
		delim = detected
	}

	cr := csv.NewReader(f)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	return r.buildRows(records)
}

// detectDelimiter picks the candidate that occurs most often in the header
// line (ties go to the earlier candidate) and rewinds the file so the real
// parse starts from the top.
func detectDelimiter(f *os.File) (rune, error) {
	br := bufio.NewReader(f)
	line, _ := br.ReadString('\n')
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	best := delimiterCandidates[0]
	bestCount := -1
	for _, c := range delimiterCandidates {
		n := strings.Count(line, string(c))
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	return best, nil
}

func (r *Reader) buildRows(records [][]string) (*ReadResult, error) {
	result := &ReadResult{}
	if len(records) == 0 {
		return result, nil
	}

	header := r.Columns
	start := 0
	if header == nil {
		if r.SkipFirstLine {
			header = records[0]
			start = 1
		} else {
			header = syntheticHeader(len(records[0]))
		}
	} else if r.SkipFirstLine {
		start = 1
	}

	header = renameHeader(header, r.Rename)

	for i := start; i < len(records); i++ {
		rec := records[i]
		if r.SkipEmptyLines && isEmptyRecord(rec) {
			continue
		}
		cols, vals := projectRecord(header, rec)
		result.Rows = append(result.Rows, NewRow(cols, vals))
	}
	return result, nil
}

func (r *Reader) readJSONLines(f *os.File) (*ReadResult, error) {
	result := &ReadResult{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if r.SkipEmptyLines {
				continue
			}
		}
		if first && r.SkipFirstLine {
			// JSON-lines has no header row to skip; skipFirstLine is
			// meaningless for this dialect, so the flag is ignored here.
			first = false
		}
		if line == "" {
			continue
		}
		parsed := gjson.Parse(line)
		if !parsed.IsObject() {
			result.Warnings = append(result.Warnings, "skipping non-object JSON line")
			continue
		}

		var cols []string
		var vals []Value
		parsed.ForEach(func(key, value gjson.Result) bool {
			cols = append(cols, key.String())
			vals = append(vals, coerceJSON(value))
			return true
		})
		cols, vals = renameColumns(cols, vals, r.Rename)
		result.Rows = append(result.Rows, NewRow(cols, vals))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func coerceJSON(v gjson.Result) Value {
	switch v.Type.String() {
	case "Number":
		if v.Num == float64(int64(v.Num)) {
			return Value{Kind: KindInt, Text: v.String(), Int: int64(v.Num)}
		}
		return Value{Kind: KindReal, Text: v.String(), Real: v.Num}
	case "True", "False":
		return Value{Kind: KindBool, Text: v.String(), Bool: v.Bool()}
	default:
		return Value{Kind: KindText, Text: v.String()}
	}
}

func syntheticHeader(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "col" + strconv.Itoa(i)
	}
	return cols
}

func renameHeader(header []string, rename map[string]string) []string {
	if len(rename) == 0 {
		return header
	}
	out := make([]string, len(header))
	for i, c := range header {
		if to, ok := rename[c]; ok {
			out[i] = to
		} else {
			out[i] = c
		}
	}
	return out
}

func renameColumns(cols []string, vals []Value, rename map[string]string) ([]string, []Value) {
	if len(rename) == 0 {
		return cols, vals
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		if to, ok := rename[c]; ok {
			out[i] = to
		} else {
			out[i] = c
		}
	}
	return out, vals
}

func isEmptyRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func projectRecord(header []string, rec []string) ([]string, []Value) {
	n := len(header)
	if len(rec) < n {
		n = len(rec)
	}
	cols := make([]string, 0, n)
	vals := make([]Value, 0, n)
	for i := 0; i < n; i++ {
		cols = append(cols, header[i])
		vals = append(vals, coerceText(rec[i]))
	}
	return cols, vals
}

// coerceText type-coerces a raw cell where unambiguous (§6): numbers and
// booleans, otherwise text.
func coerceText(s string) Value {
	trimmed := strings.TrimSpace(s)

	if trimmed == "true" || trimmed == "false" {
		return Value{Kind: KindBool, Text: s, Bool: trimmed == "true"}
	}

	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Value{Kind: KindInt, Text: s, Int: i}
	}

	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Value{Kind: KindReal, Text: s, Real: f}
	}

	return Value{Kind: KindText, Text: s}
}
