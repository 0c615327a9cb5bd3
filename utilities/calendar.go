package utilities

import (
	"net/url"
	"strings"
	"time"
)

const calendarBase = "https://calendar.google.com/calendar/render?action=TEMPLATE"

// GenerateGoogleCalendarURL monta a URL de criação de evento no Google
// Calendar para uma tarefa
func GenerateGoogleCalendarURL(title, description string, start, end time.Time) string {
	format := func(t time.Time) string {
		s := t.UTC().Format("2006-01-02T15:04:05")
		return strings.NewReplacer("-", "", ":", "").Replace(s) + "Z"
	}

	params := url.Values{}
	params.Set("text", title)
	params.Set("details", description)
	params.Set("dates", format(start)+"/"+format(end))

	return calendarBase + "&" + params.Encode()
}
