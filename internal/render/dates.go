package render

import (
	"time"

	"git.home.luguber.info/inful/sitegen/internal/value"
)

// Fixed display layouts for the standard date/time context variants.
// Formatting happens only here, at context-resolution time; dates travel
// through the pipeline as epoch seconds.
const (
	layoutDateFull   = "Monday, January 2, 2006"
	layoutDateLong   = "January 2, 2006"
	layoutDateMedium = "Jan 2, 2006"
	layoutDateShort  = "1/2/06"

	layoutTimeFull   = "15:04:05 MST"
	layoutTimeLong   = "15:04:05"
	layoutTimeMedium = "3:04:05 PM"
	layoutTimeShort  = "3:04 PM"

	layoutSitemap = "2006-01-02"
)

// DateContext expands epoch seconds into the multi-format date object exposed
// to templates: full/long/medium/short date and time strings, ISO-8601, RSS,
// sitemap, the raw timestamp, and any custom named formats (Go reference
// layouts).
func DateContext(epoch float64, custom map[string]string) value.Value {
	t := time.Unix(int64(epoch), 0).UTC()

	ctx := map[string]value.Value{
		"date": value.Map(map[string]value.Value{
			"full":   value.String(t.Format(layoutDateFull)),
			"long":   value.String(t.Format(layoutDateLong)),
			"medium": value.String(t.Format(layoutDateMedium)),
			"short":  value.String(t.Format(layoutDateShort)),
		}),
		"time": value.Map(map[string]value.Value{
			"full":   value.String(t.Format(layoutTimeFull)),
			"long":   value.String(t.Format(layoutTimeLong)),
			"medium": value.String(t.Format(layoutTimeMedium)),
			"short":  value.String(t.Format(layoutTimeShort)),
		}),
		"iso8601":   value.String(t.Format(time.RFC3339)),
		"rss":       value.String(t.Format(time.RFC1123Z)),
		"sitemap":   value.String(t.Format(layoutSitemap)),
		"timestamp": value.Double(epoch),
	}

	if len(custom) > 0 {
		formats := make(map[string]value.Value, len(custom))
		for name, layout := range custom {
			formats[name] = value.String(t.Format(layout))
		}
		ctx["formats"] = value.Map(formats)
	}

	return value.Map(ctx)
}
