package pointstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/patternlife/pkg/errors"
)

func TestFormatFor(t *testing.T) {
	require.Equal(t, FormatCSV, FormatFor("signals.CSV"))
	require.Equal(t, FormatJSON, FormatFor("signals.json"))
	require.Equal(t, FormatJSON, FormatFor("exports/2024/latest"))
}

func TestDecodeJSON(t *testing.T) {
	raw := `[
		{"lat": 32.78, "lng": -97.38, "date": "2024-03-04", "time": "08:00", "day": "MON", "description": "Walmart lot"},
		{"lat": 32.79, "lng": -97.39, "date": "2024-03-04", "time": "09:10", "day": "MON", "source": "CAM-7"}
	]`
	points, err := Decode(strings.NewReader(raw), FormatJSON)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "Walmart lot", points[0].Description)
	require.Equal(t, "CAM-7", points[1].Source)

	empty, err := Decode(strings.NewReader(""), FormatJSON)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestDecodeCSV(t *testing.T) {
	raw := "Lat,Lng,Date,Time,Day,Description\n" +
		"32.78,-97.38,2024-03-04,08:00,mon,\"Jacksboro Hwy, north\"\n" +
		"32.79,-97.39,2024-03-05,17:45,TUE,\n"
	points, err := Decode(strings.NewReader(raw), FormatCSV)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "MON", points[0].Day)
	require.Equal(t, "Jacksboro Hwy, north", points[0].Description)
	require.Equal(t, "", points[1].Source)
}

func TestDecodeCSVRejectsMissingColumn(t *testing.T) {
	_, err := Decode(strings.NewReader("lat,lng,date,day\n1,2,2024-03-04,MON\n"), FormatCSV)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "time")
}

func TestDecodeRejectsMalformedTime(t *testing.T) {
	raw := `[{"lat": 1, "lng": 2, "date": "2024-03-04", "time": "8:5", "day": "MON"}]`
	_, err := Decode(strings.NewReader(raw), FormatJSON)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "record 1")
}

func TestDecodeCSVRejectsBadCoordinate(t *testing.T) {
	raw := "lat,lng,date,time,day\nnorth,-97.38,2024-03-04,08:00,MON\n"
	_, err := Decode(strings.NewReader(raw), FormatCSV)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Contains(t, err.Error(), "row 2")
}
