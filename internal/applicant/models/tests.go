package models

import "time"

// TestResult is the verdict for one scored track.
type TestResult string

const (
	TestResultApproved    TestResult = "approved"
	TestResultNotApproved TestResult = "not_approved"
)

// TrackScore is one independently scored test track. Scored is explicit so a
// zero score still counts as a report.
type TrackScore struct {
	Scored   bool       `json:"scored"`
	Score    float64    `json:"score"`
	Result   TestResult `json:"result,omitempty"`
	ScoredBy string     `json:"scored_by,omitempty"`
	ScoredAt *time.Time `json:"scored_at,omitempty"`
}

// Tests holds the two tracks of the testing stage.
type Tests struct {
	Psychological TrackScore `json:"psychological"`
	Professional  TrackScore `json:"professional"`
}

// BothScored reports whether both tracks have reported a score. Scoring one
// track without the other never advances the applicant.
func (t Tests) BothScored() bool {
	return t.Psychological.Scored && t.Professional.Scored
}

// AnyNotApproved reports whether either track is decisive against the
// applicant.
func (t Tests) AnyNotApproved() bool {
	return t.Psychological.Result == TestResultNotApproved ||
		t.Professional.Result == TestResultNotApproved
}
