package stylometry

import "github.com/stylo-labs/stylo/internal/ingest/git"

// StylometricProfile is the final analysis document, written to
// stylometry_profile.json under a "stylometric_profile" wrapper key.
type StylometricProfile struct {
	CodeStyleMetrics   map[string]any    `json:"code_style_metrics"`
	TemporalPatterns   *TemporalAnalysis `json:"temporal_patterns"`
	ProjectPreferences map[string]any    `json:"project_preferences"`
	IdentityConfidence map[string]any    `json:"identity_confidence"`
}

// TemporalAnalysis combines the per-repository LLM evolution analysis with
// the purely statistical activity patterns.
type TemporalAnalysis struct {
	CommitStyleMetrics map[string]any   `json:"commit_style_metrics"`
	ActivityPatterns   ActivityPatterns `json:"activity_patterns"`
}

// ActivityFrequency summarizes when and how often the developer commits.
type ActivityFrequency struct {
	CommitsPerDay float64  `json:"commits_per_day"`
	ActiveHours   []string `json:"active_hours"`
	TimezoneHint  string   `json:"timezone_hint"`
}

// BurstPatterns characterizes the shape of commit activity bursts.
type BurstPatterns struct {
	Intensity       string `json:"intensity"`
	AverageDuration string `json:"average_duration"`
	Frequency       string `json:"frequency"`
}

// ActivityPatterns is the statistical half of the temporal analysis.
type ActivityPatterns struct {
	Frequency     ActivityFrequency `json:"frequency"`
	BurstPatterns BurstPatterns     `json:"burst_patterns"`
}

// FileEvolution groups sampled revisions of a repository's core files.
type FileEvolution struct {
	CommitCount   int                           `json:"commit_count"`
	CommitsByFile map[string][]git.FileRevision `json:"commits_by_file"`
}

// EvolutionData is the per-repository input to the temporal LLM analysis.
type EvolutionData struct {
	CoreFiles []string      `json:"core_files"`
	Evolution FileEvolution `json:"evolution"`
}

// InspectionData is the document written to temporal_analysis_contents.json
// so the evolution inputs can be reviewed alongside the profile.
type InspectionData struct {
	TemporalTargets []string                 `json:"temporal_targets"`
	CommitContents  map[string]EvolutionData `json:"commit_contents"`
}
