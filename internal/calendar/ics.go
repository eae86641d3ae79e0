package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/studytime/internal/model"
)

const icsDateLayout = "20060102"

// ExportICS renders one all-day VEVENT per dated task. Undated tasks are
// skipped; the count of exported events is returned with the document.
func ExportICS(tasks []model.Task, now time.Time) (string, int) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//studytime//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	count := 0
	for _, t := range tasks {
		due, err := time.Parse(model.DateLayout, strings.TrimSpace(t.Due))
		if err != nil {
			continue
		}
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "studytime task"
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("task-%s@studytime", t.ID)),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(title),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
			"PRIORITY:"+icsPriority(t.Priority),
		)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
		}
		lines = append(lines, "END:VEVENT")
		count++
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), count
}

// icsPriority maps to RFC 5545 levels (1 highest, 9 lowest).
func icsPriority(p model.Priority) string {
	switch p.Or(model.PriorityLow) {
	case model.PriorityHigh:
		return "1"
	case model.PriorityMedium:
		return "5"
	default:
		return "9"
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
