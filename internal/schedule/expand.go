// Package schedule expands weekly chore definitions into dated occurrences.
package schedule

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/dukerupert/chorecheck/internal/model"
	"github.com/dukerupert/chorecheck/internal/week"
)

// Occurrence is a single chore instance generated for a specific date.
type Occurrence struct {
	ChoreID int64
	KidID   int64
	Date    week.Date
}

// ExpandWeek generates the occurrences of the given chore definitions for the
// week starting at monday. Inactive chores are skipped. A malformed day name
// in a definition is logged and skipped rather than failing the whole week.
func ExpandWeek(chores []model.Chore, monday week.Date) []Occurrence {
	var results []Occurrence

	for _, c := range chores {
		if !c.Active {
			continue
		}
		for _, name := range strings.Split(c.DaysOfWeek, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			day, err := week.ParseDay(name)
			if err != nil {
				slog.Error("invalid day of week", "chore_id", c.ID, "day", name, "error", err)
				continue
			}
			results = append(results, Occurrence{
				ChoreID: c.ID,
				KidID:   c.KidID,
				Date:    week.DateFor(monday, day),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date < results[j].Date
		}
		return results[i].ChoreID < results[j].ChoreID
	})
	return results
}
