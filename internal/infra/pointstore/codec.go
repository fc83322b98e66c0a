package pointstore

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yanqian/patternlife/internal/domain/signal"
	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

// Format names an on-disk dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// FormatFor picks the codec from a file or object name; anything but .csv is JSON.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// Decode reads and validates a dataset. Invalid records fail the whole load.
func Decode(r io.Reader, format Format) ([]signal.Point, error) {
	var (
		points []signal.Point
		err    error
	)
	switch format {
	case FormatCSV:
		points, err = decodeCSV(r)
	default:
		points, err = decodeJSON(r)
	}
	if err != nil {
		return nil, err
	}
	if err := validateAll(points); err != nil {
		return nil, err
	}
	return points, nil
}

func decodeJSON(r io.Reader) ([]signal.Point, error) {
	var points []signal.Point
	if err := json.NewDecoder(r).Decode(&points); err != nil {
		if errors.Is(err, io.EOF) {
			return []signal.Point{}, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "decode json dataset", err)
	}
	return points, nil
}

var csvColumns = []string{"lat", "lng", "date", "time", "day", "description", "source"}

func decodeCSV(r io.Reader) ([]signal.Point, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []signal.Point{}, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "read csv header", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range csvColumns[:5] {
		if _, ok := index[required]; !ok {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("csv header missing %q column", required), nil)
		}
	}

	points := make([]signal.Point, 0)
	for row := 2; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("read csv row %d", row), err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		lat, err := strconv.ParseFloat(field("lat"), 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("csv row %d: bad lat", row), err)
		}
		lng, err := strconv.ParseFloat(field("lng"), 64)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("csv row %d: bad lng", row), err)
		}
		points = append(points, signal.Point{
			Lat:         lat,
			Lng:         lng,
			Date:        field("date"),
			Time:        field("time"),
			Day:         strings.ToUpper(field("day")),
			Description: field("description"),
			Source:      field("source"),
		})
	}
	return points, nil
}

func validateAll(points []signal.Point) error {
	for i, p := range points {
		if err := signal.Validate(p); err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("record %d is malformed", i+1), err)
		}
	}
	return nil
}
