package utils

import (
	"os"
	"time"
	"unicode/utf8"

	"github.com/hako/durafmt"
)

func FormatDate(t time.Time) string {
	if t.Unix() <= 0 {
		return ""
	}

	return t.In(GetTz()).Format("2006-01-02 15:04")
}

func GetTz() *time.Location {
	tz, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		os.Stderr.WriteString("Failed to load timezone: " + err.Error())
		os.Exit(1)
	}
	return tz
}

// HumanDuration renders a duration as prose, e.g. "1 hour 12 minutes"
func HumanDuration(d time.Duration) string {
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

// Truncate cuts s to at most limit bytes without splitting a rune.
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}

	return s[:limit]
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}
