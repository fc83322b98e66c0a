package signal

import (
	"fmt"
	"math"
	"strconv"

	"github.com/yanqian/patternlife/pkg/util"
)

// Validate checks a point read from an external source. The analysis core never calls it.
func Validate(p Point) error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range", p.Lat)
	}
	if math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range", p.Lng)
	}
	if _, err := util.ParseDate(p.Date); err != nil {
		return fmt.Errorf("date %q must be YYYY-MM-DD", p.Date)
	}
	if err := validateClock(p.Time); err != nil {
		return err
	}
	if !Selector(p.Day).IsWeekday() {
		return fmt.Errorf("day %q is not a weekday tag", p.Day)
	}
	return nil
}

func validateClock(value string) error {
	if len(value) != 5 || value[2] != ':' {
		return fmt.Errorf("time %q must be zero-padded HH:MM", value)
	}
	h, errH := strconv.Atoi(value[:2])
	m, errM := strconv.Atoi(value[3:])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return fmt.Errorf("time %q must be zero-padded HH:MM", value)
	}
	return nil
}

func canonical(p Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "|" +
		strconv.FormatFloat(p.Lng, 'f', -1, 64) + "|" +
		p.Date + "|" + p.Time + "|" + p.Day + "|" + p.Description + "|" + p.Source
}
