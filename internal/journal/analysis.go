package journal

import (
	"fmt"
	"sort"
	"strings"
)

// AnalysisPolicy turns the diary entries of a period into a summary.
type AnalysisPolicy interface {
	Summarize(p PeriodType, startDate, endDate string, entries []DiaryEntry) string
}

const (
	// topTagLimit is how many tags the summary lists.
	topTagLimit = 5
	// steadyThreshold is the number of recorded days that earns the
	// positive observation.
	steadyThreshold = 4
)

// TemplateAnalyzer is the default AnalysisPolicy: entry counts, tag
// frequencies and two canned observations, rendered in a fixed template.
type TemplateAnalyzer struct{}

var _ AnalysisPolicy = TemplateAnalyzer{}

type tagCount struct {
	tag   string
	count int
}

// Summarize renders the summary for entries, which are expected in date
// order. Ties between tags keep the order in which the tags first appeared.
func (TemplateAnalyzer) Summarize(p PeriodType, startDate, endDate string, entries []DiaryEntry) string {
	recorded := 0
	var counts []tagCount
	index := make(map[string]int)

	for _, e := range entries {
		if strings.TrimSpace(e.Content) != "" {
			recorded++
		}
		for _, t := range e.Tags {
			if i, ok := index[t]; ok {
				counts[i].count++
				continue
			}
			index[t] = len(counts)
			counts = append(counts, tagCount{tag: t, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool { return counts[i].count > counts[j].count })
	if len(counts) > topTagLimit {
		counts = counts[:topTagLimit]
	}

	top := "none"
	if len(counts) > 0 {
		parts := make([]string, len(counts))
		for i, c := range counts {
			parts[i] = fmt.Sprintf("%s(%d)", c.tag, c.count)
		}
		top = strings.Join(parts, ", ")
	}

	observation := "- Entries are sparse; even a short note each day helps build the habit."
	if recorded >= steadyThreshold {
		observation = "- You are keeping the habit going."
	}

	lines := []string{
		fmt.Sprintf("Period: %s ~ %s (%s)", startDate, endDate, p),
		fmt.Sprintf("Recorded days: %d", recorded),
		fmt.Sprintf("Top tags: %s", top),
		"",
		"Observations:",
		observation,
		"- Next step: write down one concrete thing to do tomorrow (for example, just 15 minutes).",
	}
	return strings.Join(lines, "\n")
}
