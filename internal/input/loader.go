package input

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tiktok-bulk-scheduler/internal/model"
)

// Format identifies the input file layout.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseError reports a malformed input file or row. Row is 1-based and
// counts data rows (the CSV header is row 0); it is 0 for file-level
// problems.
type ParseError struct {
	File string
	Row  int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.File, e.Row, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// Schedule times are accepted with or without seconds.
const (
	timeLayoutFull    = "2006-01-02 15:04:05"
	timeLayoutMinutes = "2006-01-02 15:04"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("input file must be CSV or JSON: %s", path)
}

// Load reads the ordered posting requests from path. Video paths are
// not checked for existence here; that happens at upload time.
func Load(path string, format Format) ([]model.PostRequest, error) {
	switch format {
	case FormatCSV:
		return loadCSV(path)
	case FormatJSON:
		return loadJSON(path)
	}
	return nil, fmt.Errorf("unsupported input format %q", format)
}

// rawRequest is the pre-validation shape shared by both formats, so CSV
// and JSON inputs normalize through the same path.
type rawRequest struct {
	VideoPath    string `json:"video_path"`
	Caption      string `json:"caption"`
	ScheduleTime string `json:"schedule_time"`
	PrivacyLevel string `json:"privacy_level"`
}

func (r rawRequest) normalize(file string, row int) (model.PostRequest, error) {
	if r.VideoPath == "" {
		return model.PostRequest{}, &ParseError{File: file, Row: row, Msg: "missing video_path"}
	}
	if r.Caption == "" {
		return model.PostRequest{}, &ParseError{File: file, Row: row, Msg: "missing caption"}
	}
	if r.ScheduleTime == "" {
		return model.PostRequest{}, &ParseError{File: file, Row: row, Msg: "missing schedule_time"}
	}

	when, err := parseScheduleTime(r.ScheduleTime)
	if err != nil {
		return model.PostRequest{}, &ParseError{
			File: file, Row: row,
			Msg: fmt.Sprintf("invalid schedule_time %q: use 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD HH:MM'", r.ScheduleTime),
		}
	}

	privacy, err := model.ParsePrivacyLevel(r.PrivacyLevel)
	if err != nil {
		return model.PostRequest{}, &ParseError{File: file, Row: row, Msg: err.Error()}
	}

	return model.PostRequest{
		VideoPath:    r.VideoPath,
		Caption:      r.Caption,
		ScheduleTime: when,
		Privacy:      privacy,
	}, nil
}

func parseScheduleTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayoutFull, s, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(timeLayoutMinutes, s, time.Local)
}

func loadCSV(path string) ([]model.PostRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{File: path, Msg: err.Error()}
	}
	if len(records) == 0 {
		return nil, &ParseError{File: path, Msg: "missing header row"}
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"video_path", "caption", "schedule_time"} {
		if _, ok := col[required]; !ok {
			return nil, &ParseError{File: path, Msg: "missing required column " + required}
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var requests []model.PostRequest
	for n, record := range records[1:] {
		raw := rawRequest{
			VideoPath:    field(record, "video_path"),
			Caption:      field(record, "caption"),
			ScheduleTime: field(record, "schedule_time"),
			PrivacyLevel: field(record, "privacy_level"),
		}
		req, err := raw.normalize(path, n+1)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func loadJSON(path string) ([]model.PostRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}

	var raws []rawRequest
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &ParseError{File: path, Msg: err.Error()}
	}

	var requests []model.PostRequest
	for n, raw := range raws {
		raw.VideoPath = strings.TrimSpace(raw.VideoPath)
		raw.Caption = strings.TrimSpace(raw.Caption)
		raw.ScheduleTime = strings.TrimSpace(raw.ScheduleTime)
		raw.PrivacyLevel = strings.TrimSpace(raw.PrivacyLevel)
		req, err := raw.normalize(path, n+1)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, nil
}
