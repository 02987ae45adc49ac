package jitcss

import (
	"io"
	"time"

	"github.com/sugawarayuuta/sonnet"
)

// JSONOutput is the JSON report schema.
type JSONOutput struct {
	Version   string       `json:"version"`
	Timestamp string       `json:"timestamp"`
	Summary   JSONSummary  `json:"summary"`
	Builds    []JSONReport `json:"builds"`
}

// JSONSummary totals all builds.
type JSONSummary struct {
	Builds     int     `json:"builds"`
	Rules      int     `json:"rules"`
	DurationMS float64 `json:"duration_ms"`
}

// JSONReport is one build.
type JSONReport struct {
	Source              string     `json:"source"`
	Classes             int        `json:"classes"`
	Rules               int        `json:"rules"`
	Buckets             JSONBucket `json:"buckets"`
	Contexts            int        `json:"contexts"`
	ContentMatchEntries int        `json:"content_match_entries"`
	DurationMS          float64    `json:"duration_ms"`
}

// JSONBucket holds the rule count of each output bucket.
type JSONBucket struct {
	Base       int `json:"base"`
	Components int `json:"components"`
	Utilities  int `json:"utilities"`
	Variants   int `json:"variants"`
}

// WriteJSON writes reports as indented JSON.
func WriteJSON(w io.Writer, reports []Report) error {
	b, err := sonnet.MarshalIndent(buildJSONOutput(reports), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func buildJSONOutput(reports []Report) JSONOutput {
	out := JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Builds:    make([]JSONReport, len(reports)),
	}
	for i, r := range reports {
		ms := float64(r.Duration) / float64(time.Millisecond)
		out.Builds[i] = JSONReport{
			Source:  r.Source,
			Classes: r.Classes,
			Rules:   r.Rules,
			Buckets: JSONBucket{
				Base:       r.Base,
				Components: r.Components,
				Utilities:  r.Utilities,
				Variants:   r.Variants,
			},
			Contexts:            r.Contexts,
			ContentMatchEntries: r.ContentMatchEntries,
			DurationMS:          ms,
		}
		out.Summary.Rules += r.Rules
		out.Summary.DurationMS += ms
	}
	out.Summary.Builds = len(reports)
	return out
}
