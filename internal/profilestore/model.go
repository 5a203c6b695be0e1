// Package profilestore persists developer profile embeddings in Milvus and
// answers cross-account similarity queries. Two accounts whose stylometric
// profiles embed close together are candidates for being the same person.
package profilestore

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stylo-labs/stylo/internal/stylometry"
)

// Milvus varchar fields cap at 65535; leave headroom for multibyte runes
const maxSummaryLen = 60_000

// ProfileRecord is one stored developer profile.
type ProfileRecord struct {
	Username   string    `json:"username"`
	Summary    string    `json:"summary"`
	RepoCount  int       `json:"repo_count"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// SimilarProfile is one similarity search hit.
type SimilarProfile struct {
	Username   string    `json:"username"`
	Score      float32   `json:"score"`
	RepoCount  int       `json:"repo_count"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// BuildSummary flattens a stylometric profile into the text that gets
// embedded. The temporal statistics lead because they are the most stable
// cross-account signal; the LLM sections follow as compact JSON.
func BuildSummary(username string, profile *stylometry.StylometricProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Developer profile for %s.\n", username)

	if profile.TemporalPatterns != nil {
		ap := profile.TemporalPatterns.ActivityPatterns
		fmt.Fprintf(&b, "Commits per day: %.2f. Active hours: %s. Timezone hint: %s.\n",
			ap.Frequency.CommitsPerDay,
			strings.Join(ap.Frequency.ActiveHours, ", "),
			ap.Frequency.TimezoneHint)
		fmt.Fprintf(&b, "Burst intensity: %s, duration: %s, frequency: %s.\n",
			ap.BurstPatterns.Intensity,
			ap.BurstPatterns.AverageDuration,
			ap.BurstPatterns.Frequency)
	}

	appendSection(&b, "Code style", profile.CodeStyleMetrics)
	appendSection(&b, "Project preferences", profile.ProjectPreferences)
	appendSection(&b, "Identity confidence", profile.IdentityConfidence)

	summary := b.String()
	if len(summary) > maxSummaryLen {
		summary = summary[:maxSummaryLen]
	}
	return summary
}

func appendSection(b *strings.Builder, label string, section map[string]any) {
	if len(section) == 0 {
		return
	}
	data, err := json.Marshal(section)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, data)
}
