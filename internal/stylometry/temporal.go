package stylometry

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Thresholds for picking repositories worth an evolution analysis
const (
	minTemporalCommits = 5
	minTemporalFiles   = 10
)

// TemporalCandidate carries the per-repository counts used to decide
// whether a repository has enough history for evolution analysis.
type TemporalCandidate struct {
	CommitCount int
	FileCount   int
}

// SelectTemporalTargets returns the repositories with enough commits and
// files to support a meaningful evolution analysis, sorted by name.
func SelectTemporalTargets(candidates map[string]TemporalCandidate) []string {
	var targets []string
	for name, c := range candidates {
		if c.CommitCount < minTemporalCommits || c.FileCount < minTemporalFiles {
			continue
		}
		targets = append(targets, name)
	}
	sort.Strings(targets)
	return targets
}

// AnalyzeActivity derives commit timing statistics from raw commit times:
// daily rate, dominant hours, a coarse timezone hint, and burst shape.
func AnalyzeActivity(commitTimes []time.Time) ActivityPatterns {
	if len(commitTimes) == 0 {
		return ActivityPatterns{
			Frequency: ActivityFrequency{
				ActiveHours:  []string{},
				TimezoneHint: "unknown",
			},
			BurstPatterns: BurstPatterns{
				Intensity:       "low",
				AverageDuration: "n/a",
				Frequency:       "sporadic",
			},
		}
	}

	times := make([]time.Time, len(commitTimes))
	copy(times, commitTimes)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	daysSpan := int(times[len(times)-1].Sub(times[0]).Hours() / 24)
	if daysSpan == 0 {
		daysSpan = 1
	}
	commitsPerDay := math.Round(float64(len(times))/float64(daysSpan)*100) / 100

	hourCounts := make(map[int]int)
	for _, t := range times {
		hourCounts[t.Hour()]++
	}

	activeHours := topActiveHours(hourCounts, len(times))
	tzHint := timezoneHint(peakHour(hourCounts))
	bursts := burstPatterns(times, commitsPerDay)

	return ActivityPatterns{
		Frequency: ActivityFrequency{
			CommitsPerDay: commitsPerDay,
			ActiveHours:   activeHours,
			TimezoneHint:  tzHint,
		},
		BurstPatterns: bursts,
	}
}

// topActiveHours formats the up-to-three most common commit hours that each
// account for more than 10% of all commits.
func topActiveHours(hourCounts map[int]int, total int) []string {
	type hourCount struct {
		hour  int
		count int
	}

	ordered := make([]hourCount, 0, len(hourCounts))
	for h, c := range hourCounts {
		ordered = append(ordered, hourCount{h, c})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count == ordered[j].count {
			return ordered[i].hour < ordered[j].hour
		}
		return ordered[i].count > ordered[j].count
	})

	hours := []string{}
	for i, hc := range ordered {
		if i >= 3 {
			break
		}
		if float64(hc.count) <= float64(total)*0.1 {
			continue
		}
		hours = append(hours, fmt.Sprintf("%02d-%02d", hc.hour, hc.hour+1))
	}
	return hours
}

func peakHour(hourCounts map[int]int) int {
	peak, best := 0, -1
	for h, c := range hourCounts {
		if c > best || (c == best && h < peak) {
			peak, best = h, c
		}
	}
	return peak
}

// timezoneHint maps the peak UTC commit hour to a likely timezone range,
// assuming most developers commit during local afternoon and evening.
func timezoneHint(peakHour int) string {
	switch {
	case peakHour >= 4 && peakHour <= 8:
		return "UTC+8 to UTC+10"
	case peakHour >= 8 && peakHour <= 12:
		return "UTC+0 to UTC+2"
	case peakHour >= 12 && peakHour <= 16:
		return "UTC-6 to UTC-4"
	case peakHour >= 16 && peakHour <= 20:
		return "UTC-12 to UTC-8"
	default:
		return "unclear"
	}
}

// burstPatterns classifies activity bursts from inter-commit gaps.
func burstPatterns(sorted []time.Time, commitsPerDay float64) BurstPatterns {
	if len(sorted) < 2 {
		return BurstPatterns{
			Intensity:       "low",
			AverageDuration: "n/a",
			Frequency:       "sporadic",
		}
	}

	totalGap := 0.0
	for i := 1; i < len(sorted); i++ {
		totalGap += sorted[i].Sub(sorted[i-1]).Hours()
	}
	avgGap := totalGap / float64(len(sorted)-1)

	intensity := "low"
	if avgGap < 1 {
		intensity = "high"
	} else if avgGap < 4 {
		intensity = "moderate"
	}

	duration := "multi-day"
	if avgGap < 4 {
		duration = "few hours"
	} else if avgGap < 24 {
		duration = "day-length"
	}

	frequency := "sporadic"
	if commitsPerDay > 3 {
		frequency = "frequent"
	} else if commitsPerDay > 1 {
		frequency = "regular"
	}

	return BurstPatterns{
		Intensity:       intensity,
		AverageDuration: duration,
		Frequency:       frequency,
	}
}
