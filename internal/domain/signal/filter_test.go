package signal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePoints() []Point {
	return []Point{
		{Lat: 32.78, Lng: -97.38, Date: "2024-03-04", Time: "09:00", Day: "MON"},
		{Lat: 32.79, Lng: -97.39, Date: "2024-03-05", Time: "08:00", Day: "TUE"},
		{Lat: 32.78, Lng: -97.38, Date: "2024-03-11", Time: "07:30", Day: "MON"},
		{Lat: 32.70, Lng: -97.30, Date: "2024-03-04", Time: "07:45", Day: "MON"},
	}
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("mon")
	require.NoError(t, err)
	require.Equal(t, Mon, sel)

	sel, err = ParseSelector("")
	require.NoError(t, err)
	require.Equal(t, All, sel)

	sel, err = ParseSelector(" all ")
	require.NoError(t, err)
	require.Equal(t, All, sel)

	_, err = ParseSelector("MONDAY")
	require.Error(t, err)
}

func TestFilterKeepsOrder(t *testing.T) {
	points := samplePoints()

	require.Equal(t, points, Filter(points, All))

	mon := Filter(points, Mon)
	require.Len(t, mon, 3)
	require.Equal(t, "09:00", mon[0].Time)
	require.Equal(t, "07:30", mon[1].Time)
	require.Equal(t, "07:45", mon[2].Time)

	require.Empty(t, Filter(points, Sun))
}

func TestLockedDates(t *testing.T) {
	points := samplePoints()
	require.Equal(t, []string{"2024-03-04", "2024-03-11"}, LockedDates(points, Mon))
	require.Equal(t, []string{"2024-03-04", "2024-03-05", "2024-03-11"}, LockedDates(points, All))
	require.Empty(t, LockedDates(points, Fri))

	require.True(t, ShowHistory(All))
	require.False(t, ShowHistory(Wed))
}

func TestSortByTimeIsStableCopy(t *testing.T) {
	points := []Point{
		{Time: "10:05", Description: "c"},
		{Time: "08:00", Description: "a"},
		{Time: "08:00", Description: "b"},
	}
	sorted := SortByTime(points)
	require.Equal(t, []string{"a", "b", "c"}, []string{sorted[0].Description, sorted[1].Description, sorted[2].Description})
	require.Equal(t, "c", points[0].Description)
}

func TestGroupByDate(t *testing.T) {
	groups := GroupByDate(samplePoints())
	require.Len(t, groups, 3)
	require.Len(t, groups["2024-03-04"], 2)
	require.Equal(t, "09:00", groups["2024-03-04"][0].Time)
}

func TestClockMinutes(t *testing.T) {
	m, err := ClockMinutes("10:05")
	require.NoError(t, err)
	require.Equal(t, 605, m)

	_, err = ClockMinutes("1005")
	require.Error(t, err)
	_, err = ClockMinutes("ab:05")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Point{Lat: 32.7, Lng: -97.3, Date: "2024-03-04", Time: "08:05", Day: "MON"}
	require.NoError(t, Validate(good))

	bad := good
	bad.Time = "8:05"
	require.Error(t, Validate(bad))

	bad = good
	bad.Time = "24:00"
	require.Error(t, Validate(bad))

	bad = good
	bad.Day = "Monday"
	require.Error(t, Validate(bad))

	bad = good
	bad.Lat = 91
	require.Error(t, Validate(bad))

	bad = good
	bad.Date = "03/04/2024"
	require.Error(t, Validate(bad))
}

func TestFingerprintTracksContent(t *testing.T) {
	a := samplePoints()
	b := samplePoints()
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	b[1].Time = "08:01"
	require.NotEqual(t, Fingerprint(a), Fingerprint(b))

	store := NewMemoryStore(a)
	ds, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, Fingerprint(a), ds.Fingerprint)
	require.Len(t, ds.Points, 4)
}
