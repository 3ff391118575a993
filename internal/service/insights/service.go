package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	prommetrics "github.com/vinverse/gamerlink-engine/internal/metrics"
	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/internal/service/performance"
	"github.com/vinverse/gamerlink-engine/internal/textgen"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

// UserRepository defines the user lookups the service needs.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	ListByIDs(ids []uint) ([]models.User, error)
}

// TournamentRepository defines the tournament lookups the service needs.
type TournamentRepository interface {
	GetByID(id uint) (*models.Tournament, error)
	CountParticipations(userID uint, game string) (int, error)
}

// TeamRepository defines the teammate lookups the service needs.
type TeamRepository interface {
	TeammateIDsForTeam(userID uint, game string) ([]uint, error)
	CountTeamsForUser(userID uint, game string) (int, error)
}

// InsightRepository defines the insight persistence the service needs.
type InsightRepository interface {
	GetOrCreatePending(userID, tournamentID uint) (*models.MatchInsight, bool, error)
	Update(insight *models.MatchInsight) error
	GetByUserAndTournament(userID, tournamentID uint) (*models.MatchInsight, error)
	ListByUser(userID uint) ([]models.MatchInsight, error)
}

// Service runs win-probability estimation and the asynchronous insight job.
type Service struct {
	userRepo       UserRepository
	tournamentRepo TournamentRepository
	teamRepo       TeamRepository
	insightRepo    InsightRepository
	generator      textgen.Generator
	estimator      *Estimator
	jobTimeout     time.Duration
	log            *logger.Logger
}

// NewService creates an insights service.
func NewService(
	userRepo UserRepository,
	tournamentRepo TournamentRepository,
	teamRepo TeamRepository,
	insightRepo InsightRepository,
	generator textgen.Generator,
	estimator *Estimator,
	jobTimeout time.Duration,
	log *logger.Logger,
) *Service {
	if jobTimeout <= 0 {
		jobTimeout = 30 * time.Second
	}
	return &Service{
		userRepo:       userRepo,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		insightRepo:    insightRepo,
		generator:      generator,
		estimator:      estimator,
		jobTimeout:     jobTimeout,
		log:            log,
	}
}

// PredictWinProbability estimates the user's chance of winning the given
// tournament via the configured estimation path.
func (s *Service) PredictWinProbability(ctx context.Context, userID, tournamentID uint) (float64, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to predict win probability: %w", err)
	}
	tournament, err := s.tournamentRepo.GetByID(tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to predict win probability: %w", err)
	}

	in, err := s.buildEstimateInput(user, tournament.Game)
	if err != nil {
		return 0, err
	}
	return s.estimator.Estimate(in), nil
}

func (s *Service) buildEstimateInput(user *models.User, game string) (EstimateInput, error) {
	count, err := s.tournamentRepo.CountParticipations(user.ID, game)
	if err != nil {
		return EstimateInput{}, fmt.Errorf("failed to count participations: %w", err)
	}

	in := EstimateInput{
		WinRate:     performance.WinRate(user.XPPoints, count),
		Consistency: performance.SkillConsistency(user.XPPoints, count),
		XPPoints:    user.XPPoints,
		Rank:        user.Rank,
	}

	teammateIDs, err := s.teamRepo.TeammateIDsForTeam(user.ID, game)
	if err != nil {
		return EstimateInput{}, fmt.Errorf("failed to load teammates: %w", err)
	}
	if len(teammateIDs) > 0 {
		teammates, err := s.userRepo.ListByIDs(teammateIDs)
		if err != nil {
			return EstimateInput{}, fmt.Errorf("failed to load teammates: %w", err)
		}
		for _, mate := range teammates {
			mateCount, err := s.tournamentRepo.CountParticipations(mate.ID, game)
			if err != nil {
				return EstimateInput{}, fmt.Errorf("failed to count participations: %w", err)
			}
			in.TeammateWinRates = append(in.TeammateWinRates, performance.WinRate(mate.XPPoints, mateCount))
		}
	}

	return in, nil
}

// Submit starts insight generation for (user, tournament) and returns
// immediately with the stored row. A finished insight is returned as-is.
// A pre-existing pending row restarts generation, so an insight orphaned
// by a crash mid-job is picked up by the next Submit instead of staying
// pending forever. The returned flag says whether this call started a job.
func (s *Service) Submit(ctx context.Context, userID, tournamentID uint) (*models.MatchInsight, bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to submit insight job: %w", err)
	}
	tournament, err := s.tournamentRepo.GetByID(tournamentID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to submit insight job: %w", err)
	}

	insight, created, err := s.insightRepo.GetOrCreatePending(userID, tournamentID)
	if err != nil {
		return nil, false, err
	}
	if !created && insight.Status != models.InsightStatusPending {
		return insight, false, nil
	}

	// Detach from the request context: the caller gets the pending row
	// back right away and polls for completion.
	go s.runJob(*insight, *user, *tournament)

	return insight, true, nil
}

func (s *Service) runJob(insight models.MatchInsight, user models.User, tournament models.Tournament) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	start := time.Now()
	model := s.generate(ctx, &insight, &user, &tournament)
	prommetrics.ObserveInsightJobDuration(time.Since(start).Seconds())

	if err := s.insightRepo.Update(&insight); err != nil {
		prommetrics.RecordInsightJob("error", model)
		s.log.Error().Err(err).
			Uint("user_id", user.ID).
			Uint("tournament_id", tournament.ID).
			Msg("Failed to persist insight")
		return
	}

	prommetrics.RecordInsightJob("done", model)
	s.log.Info().
		Uint("user_id", user.ID).
		Uint("tournament_id", tournament.ID).
		Str("model", model).
		Msg("Insight generated")
}

// generate fills the insight in place and returns the model name used.
// It never fails: collaborator errors degrade to the deterministic summary.
func (s *Service) generate(ctx context.Context, insight *models.MatchInsight, user *models.User, tournament *models.Tournament) string {
	in, err := s.buildEstimateInput(user, tournament.Game)
	if err != nil {
		// Metric inputs are unavailable; publish neutral values rather
		// than leaving the row pending forever.
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to compute insight metrics")
		in = EstimateInput{WinRate: 0.5, Consistency: 0.5, Rank: user.Rank, XPPoints: user.XPPoints}
	}

	winProb := s.estimator.Estimate(in)
	teams, err := s.teamRepo.CountTeamsForUser(user.ID, tournament.Game)
	if err != nil {
		teams = 0
	}
	mvp := performance.MVPScore(user.Rank, user.XPPoints, teams)

	player := textgen.PlayerContext{
		GamerTag:       user.GamerTag,
		Game:           tournament.Game,
		Rank:           user.Rank,
		WinProbability: winProb,
		Consistency:    in.Consistency,
		MVPScore:       mvp,
	}

	model := s.generator.Model()
	commentary, err := s.generator.GenerateCommentary(ctx, player)
	if err != nil {
		if !errors.Is(err, textgen.ErrDisabled) {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("Text generation failed, using fallback summary")
		}
		commentary = fallbackCommentary(player)
		model = "fallback"
	}

	strengths, _ := json.Marshal(commentary.Strengths)
	improvements, _ := json.Marshal(commentary.Improvements)

	insight.Status = models.InsightStatusDone
	insight.Summary = commentary.Summary
	insight.Strengths = strengths
	insight.Improvements = improvements
	insight.Score = mvp
	insight.AIModel = model
	insight.GeneratedAt = time.Now()

	return model
}

// fallbackCommentary builds a deterministic summary from the computed
// metrics when the text-generation collaborator is unavailable.
func fallbackCommentary(player textgen.PlayerContext) *textgen.Commentary {
	tag := player.GamerTag
	if tag == "" {
		tag = "This player"
	}

	var strengths, improvements []string
	if player.WinProbability >= 0.5 {
		strengths = append(strengths, "Strong win outlook for this bracket")
	} else {
		improvements = append(improvements, "Win probability below even, expect a tough bracket")
	}
	if player.Consistency >= 0.7 {
		strengths = append(strengths, "Very consistent recent results")
	} else if player.Consistency < 0.4 {
		improvements = append(improvements, "Results vary a lot between tournaments")
	}
	if player.MVPScore >= 75 {
		strengths = append(strengths, "MVP-caliber individual impact")
	}
	if len(strengths) == 0 {
		strengths = append(strengths, "Room to grow across the board")
	}
	if len(improvements) == 0 {
		improvements = append(improvements, "Keep up the current pace")
	}

	summary := fmt.Sprintf(
		"%s enters %s with a %.0f%% estimated win probability. Consistency sits at %.0f%% with an MVP score of %.0f/100.",
		tag, displayGame(player.Game), player.WinProbability*100, player.Consistency*100, player.MVPScore,
	)

	return &textgen.Commentary{
		Summary:      summary,
		Strengths:    strengths,
		Improvements: improvements,
	}
}

func displayGame(game string) string {
	if strings.TrimSpace(game) == "" {
		return "the tournament"
	}
	return game
}

// Get returns the stored insight for (user, tournament), pending or done.
func (s *Service) Get(ctx context.Context, userID, tournamentID uint) (*models.MatchInsight, error) {
	return s.insightRepo.GetByUserAndTournament(userID, tournamentID)
}

// ListForUser returns all of a user's insights, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.MatchInsight, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return s.insightRepo.ListByUser(userID)
}
