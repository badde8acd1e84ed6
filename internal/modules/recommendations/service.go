package recommendations

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/wealthlens/wealthlens/internal/domain"
)

// InvestmentSource provides the holdings the engine runs against
type InvestmentSource interface {
	ListByUser(userID int64) ([]domain.Investment, error)
}

// ProfileSource provides the user's stored risk tier
type ProfileSource interface {
	GetRiskProfile(userID int64) (domain.RiskProfile, error)
}

// Service assembles recommendations from live holdings and the stored
// risk profile
type Service struct {
	investments InvestmentSource
	profiles    ProfileSource
	threshold   float64
	log         zerolog.Logger
}

// NewService creates a new recommendation service
func NewService(investments InvestmentSource, profiles ProfileSource, threshold float64, log zerolog.Logger) *Service {
	if threshold <= 0 {
		threshold = DefaultDriftThreshold
	}
	return &Service{
		investments: investments,
		profiles:    profiles,
		threshold:   threshold,
		log:         log.With().Str("service", "recommendations").Logger(),
	}
}

// ForUser computes the recommendation payload for one user
func (s *Service) ForUser(userID int64) (Recommendation, error) {
	holdings, err := s.investments.ListByUser(userID)
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to load investments: %w", err)
	}

	profile, err := s.profiles.GetRiskProfile(userID)
	if err != nil {
		// A missing profile is not fatal; moderate is the safe default.
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("No risk profile, defaulting to moderate")
		profile = domain.RiskModerate
	}

	tier, model := ModelFor(profile)
	return Recommend(holdings, tier, model, s.threshold), nil
}
