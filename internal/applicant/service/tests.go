package service

import (
	"context"
	"fmt"

	"hireflow/internal/applicant/models"
	id "hireflow/pkg/domain"
	dErrors "hireflow/pkg/domain-errors"
	audit "hireflow/pkg/platform/audit"
	"hireflow/pkg/requestcontext"
)

// TestTrack selects which of the two testing tracks a score report targets.
type TestTrack string

const (
	TrackPsychological TestTrack = "psychological"
	TrackProfessional  TestTrack = "professional"
)

// ParseTestTrack validates a wire value.
func ParseTestTrack(raw string) (TestTrack, error) {
	switch TestTrack(raw) {
	case TrackPsychological, TrackProfessional:
		return TestTrack(raw), nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "unknown test track: "+raw)
	}
}

// ScoreInput is one track's score report.
type ScoreInput struct {
	Track  TestTrack         `json:"track"`
	Score  float64           `json:"score"`
	Result models.TestResult `json:"result"`
}

// ScoreTest records one track's result. Each track updates independently;
// the stage outcome is evaluated only once both tracks have reported.
// Concurrent reports resolve last-evaluated-wins: whichever report observes
// both tracks scored drives the stage outcome.
//
//   - both scored, both approved  -> document collection
//   - any track not approved      -> rejected
//   - one track scored            -> no status change
func (s *Service) ScoreTest(ctx context.Context, applicantID id.ApplicantID, input ScoreInput) (*models.Applicant, error) {
	ctx, span := s.startSpan(ctx, "applicant.ScoreTest", applicantID)
	defer span.End()

	if input.Result != models.TestResultApproved && input.Result != models.TestResultNotApproved {
		return nil, dErrors.New(dErrors.CodeValidation, "test result must be approved or not_approved")
	}

	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)
	var target models.Status
	var comment string

	applicant, err := s.execute(ctx, applicantID,
		func(a *models.Applicant) error {
			return requireStatus(a, models.StatusTesting)
		},
		func(a *models.Applicant) []models.HistoryEntry {
			score := models.TrackScore{
				Scored:   true,
				Score:    input.Score,
				Result:   input.Result,
				ScoredBy: actor.Name,
				ScoredAt: &now,
			}
			switch input.Track {
			case TrackPsychological:
				a.Tests.Psychological = score
			case TrackProfessional:
				a.Tests.Professional = score
			}

			target = ""
			if a.Tests.BothScored() {
				if a.Tests.AnyNotApproved() {
					target = models.StatusRejected
				} else {
					target = models.StatusDocumentCollection
				}
			}
			comment = fmt.Sprintf("%s test scored %.1f (%s)", input.Track, input.Score, input.Result)
			if target != "" {
				a.ApplyStatus(target, now)
				comment = fmt.Sprintf("%s; status is now %s", comment, target)
			} else {
				a.UpdatedAt = now
			}
			return historyEntry(ctx, a, comment)
		},
	)
	if err != nil {
		s.countGuardViolation(err)
		return nil, err
	}

	if target != "" {
		s.metrics.IncrementTransition(string(target))
	}
	s.emitAudit(ctx, applicant, audit.EventTestsScored, comment)
	if target != "" {
		s.notify(ctx, applicant, "Testing stage decided",
			fmt.Sprintf("%s: %s", applicant.FullName, comment))
	}
	return applicant, nil
}
