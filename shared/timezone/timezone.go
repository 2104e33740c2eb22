// Package timezone pins every clock reading and calendar parse to the application
// timezone (APP_TIMEZONE, an IANA name such as "Europe/Lisbon"). It resolves the
// location when first imported and falls back to UTC when the name is empty or unknown.
package timezone

import (
	"stayfinder/config"
	"stayfinder/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

var appLocation = time.UTC

func init() {
	appLocation = resolve(config.Get().App.Timezone)
}

func resolve(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Unknown timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

// Now is the application clock. Booking and archival decisions compare against it.
func Now() time.Time {
	return time.Now().In(appLocation)
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

// SetLocation replaces the application timezone. A nil location is ignored.
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}

	appLocation = loc
}

// Parse reads value as wall time in the application timezone.
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay truncates t to midnight in the application timezone.
func StartOfDay(t time.Time) time.Time {
	year, month, day := ToAppTime(t).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, appLocation)
}

// ParseDate reads a check-in or check-out date as midnight in the application timezone.
func ParseDate(value string) (time.Time, error) {
	return Parse(constant.CalendarFormat, value)
}

// Calendar treats t as a calendar date: it keeps the year, month and day t carries in its own
// location and returns midnight of that day in the application timezone. DATE columns come
// back from the driver at a zero offset and must go through it before being compared or formatted.
// The zero time is returned as is.
func Calendar(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, appLocation)
}

// FormatDate renders a calendar date without shifting it across a day boundary.
func FormatDate(t time.Time) string {
	return Calendar(t).Format(constant.CalendarFormat)
}
