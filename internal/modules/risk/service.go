package risk

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
	"github.com/wealthlens/wealthlens/internal/events"
)

// Service scores questionnaire submissions
type Service struct {
	repo   *Repository
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a new risk service
func NewService(repo *Repository, eventBus *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: eventBus,
		log:    log.With().Str("service", "risk").Logger(),
	}
}

// ListQuestions returns the questionnaire
func (s *Service) ListQuestions() ([]Question, error) {
	return s.repo.ListQuestions()
}

// Assess scores a full set of answers and stores the resulting profile.
// Every question must be answered with option 1, 2 or 3.
func (s *Service) Assess(userID int64, answers map[int64]int) (Assessment, error) {
	questions, err := s.repo.ListQuestions()
	if err != nil {
		return Assessment{}, fmt.Errorf("failed to load questions: %w", err)
	}

	total := 0
	maxTotal := 0
	for _, q := range questions {
		choice, ok := answers[q.ID]
		if !ok {
			return Assessment{}, domain.Invalid("answers", fmt.Sprintf("question %d is unanswered", q.ID))
		}
		if choice < 1 || choice > len(q.Options) {
			return Assessment{}, domain.Invalid("answers", fmt.Sprintf("question %d: option must be 1-%d", q.ID, len(q.Options)))
		}

		total += q.Options[choice-1].Score
		best := 0
		for _, o := range q.Options {
			if o.Score > best {
				best = o.Score
			}
		}
		maxTotal += best
	}

	assessment := Assessment{
		Score:       total,
		MaxScore:    maxTotal,
		RiskProfile: ProfileFor(total),
	}

	if err := s.repo.SaveProfile(userID, total, assessment.RiskProfile); err != nil {
		return Assessment{}, fmt.Errorf("failed to save profile: %w", err)
	}

	s.events.Emit(events.AssessmentCompleted, "risk", map[string]interface{}{
		"user_id": userID,
		"score":   total,
		"profile": string(assessment.RiskProfile),
	})

	return assessment, nil
}
