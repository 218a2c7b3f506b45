// Package archive names and discovers the dated csv files on disk.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"highwatch/internal/components/chrono"
)

const WeeklyPrefix = "weekly_consolidated"

// DailyName returns "<prefix>_<YYYY-MM-DD>.csv", names sort the same way their dates do.
func DailyName(prefix string, date time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, chrono.Date(date))
}

func WeeklyName(date time.Time) string {
	return DailyName(WeeklyPrefix, date)
}

type DailyFile struct {
	Name string
	Path string
	// Date is the YYYY-MM-DD token of the name.
	Date string
	Time time.Time
}

func dailyPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`^%s_(\d{4}-\d{2}-\d{2})\.csv$`, regexp.QuoteMeta(prefix)))
}

// ParseDailyName extracts the date token of a daily file name.
func ParseDailyName(prefix, name string) (string, time.Time, bool) {
	groups := dailyPattern(prefix).FindStringSubmatch(name)
	if len(groups) < 2 {
		return "", time.Time{}, false
	}
	parsed, err := time.Parse(chrono.DateLayout, groups[1])
	if err != nil {
		return "", time.Time{}, false
	}
	return groups[1], parsed, true
}

// ListDaily lists the daily files in `dir` sorted by name. A directory that does
// not exist yet simply has no files.
func ListDaily(dir, prefix string) ([]DailyFile, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	pattern := dailyPattern(prefix)
	var out []DailyFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		groups := pattern.FindStringSubmatch(entry.Name())
		if len(groups) < 2 {
			continue
		}
		parsed, err := time.Parse(chrono.DateLayout, groups[1])
		if err != nil {
			// 2024-13-45 and the like
			continue
		}
		out = append(out, DailyFile{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Date: groups[1],
			Time: parsed,
		})
	}

	slices.SortFunc(out, func(a, b DailyFile) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}
