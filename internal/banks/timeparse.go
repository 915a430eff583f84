package banks

import (
	"errors"
	"strings"
	"time"
	_ "time/tzdata"
)

var errUnrecognisedTime = errors.New("unrecognised date/time")

// zoneHints maps abbreviations found in bank texts to IANA zones.
var zoneHints = map[string]string{
	"SGT": "Asia/Singapore",
	"MYT": "Asia/Kuala_Lumpur",
	"HKT": "Asia/Hong_Kong",
	"UTC": "UTC",
	"GMT": "UTC",
}

// Month names are matched case-insensitively by time.Parse, AM/PM is not, so
// input is upper-cased before parsing.
var dateTimeLayouts = []string{
	"3:04PM 2 Jan 06",
	"3:04PM 2 Jan 2006",
	"3:04 PM 2 Jan 06",
	"3:04 PM 2 Jan 2006",
	"2 Jan 2006 3:04 PM",
	"2 Jan 2006 3:04PM",
	"2 Jan 06 3:04 PM",
	"2 Jan 06 3:04PM",
	"2 Jan 2006 15:04",
	"2-Jan-2006 3:04PM",
	"2-Jan-2006 3:04 PM",
	"2-Jan-06 3:04PM",
	"2/1/2006 3:04PM",
	"2/1/2006 3:04 PM",
	"2/1/06 3:04PM",
	"2/1/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var dateOnlyLayouts = []string{
	"2 Jan 2006",
	"2 Jan 06",
	"2-Jan-2006",
	"2-Jan-06",
	"2/1/2006",
	"2/1/06",
	"2006-01-02",
}

func mustLoadLocation(name string, offset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offset)
	}
	return loc
}

var singapore = mustLoadLocation("Asia/Singapore", 8*60*60)

// parseBankTime reads the loosely formatted times banks embed in messages,
// e.g. "1:44PM SGT, 27 Dec 25" or "07-MAY-2025 01:42AM". Slash dates are
// day first. Without a zone hint the time is read in loc. dateOnly is true
// when the text carried no time of day.
func parseBankTime(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " AT ", " ")
	s = strings.ReplaceAll(s, ",", " ")
	s = strings.TrimSuffix(s, ".")

	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if zone, ok := zoneHints[f]; ok {
			loc = mustLoadLocation(zone, 0)
			continue
		}
		kept = append(kept, f)
	}
	s = strings.Join(kept, " ")

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false, nil
		}
	}
	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, errUnrecognisedTime
}
