package matchmaking

import (
	"context"
	"errors"
	"testing"

	"github.com/vinverse/gamerlink-engine/internal/models"
	"github.com/vinverse/gamerlink-engine/pkg/logger"
)

type mockUserRepo struct {
	users map[uint]*models.User
}

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *mockUserRepo) ListByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

type mockTournamentRepo struct {
	participants   []uint
	participations map[uint]int
	common         map[uint]int // candidateID -> shared tournaments with requester
}

func (m *mockTournamentRepo) CountParticipations(userID uint, game string) (int, error) {
	return m.participations[userID], nil
}

func (m *mockTournamentRepo) ListParticipantIDs(game string) ([]uint, error) {
	return m.participants, nil
}

func (m *mockTournamentRepo) CountCommonTournaments(userA, userB uint, game string) (int, error) {
	return m.common[userB], nil
}

type mockTeamRepo struct {
	teammates []uint
}

func (m *mockTeamRepo) TeammateIDs(userID uint, game string) ([]uint, error) {
	return m.teammates, nil
}

type mockLFTRepo struct {
	matched []uint
}

func (m *mockLFTRepo) ListActiveAuthorIDs(game, region string) ([]uint, error) {
	return m.matched, nil
}

func fixtureUsers(n int) map[uint]*models.User {
	users := make(map[uint]*models.User, n)
	for i := 1; i <= n; i++ {
		users[uint(i)] = &models.User{
			ID:       uint(i),
			Username: "player",
			GamerTag: "tag",
			Rank:     "Gold II",
			XPPoints: 1000,
		}
	}
	return users
}

func idsFrom(users map[uint]*models.User) []uint {
	ids := make([]uint, 0, len(users))
	for i := 1; i <= len(users); i++ {
		ids = append(ids, uint(i))
	}
	return ids
}

func newTestService(users map[uint]*models.User, tournamentRepo *mockTournamentRepo, teamRepo *mockTeamRepo, lftRepo *mockLFTRepo, poolLimit int) *Service {
	return NewService(
		&mockUserRepo{users: users},
		tournamentRepo,
		teamRepo,
		lftRepo,
		poolLimit,
		logger.New("error", "console", "stdout"),
	)
}

func TestRunRejectsMissingInput(t *testing.T) {
	svc := newTestService(fixtureUsers(1), &mockTournamentRepo{}, &mockTeamRepo{}, &mockLFTRepo{}, 0)

	if _, err := svc.Run(context.Background(), 1, "", "", 2); !errors.Is(err, models.ErrMissingInput) {
		t.Errorf("empty game: err = %v, want ErrMissingInput", err)
	}
	if _, err := svc.Run(context.Background(), 1, "Valorant", "", 0); !errors.Is(err, models.ErrMissingInput) {
		t.Errorf("zero team size: err = %v, want ErrMissingInput", err)
	}
}

func TestRunUnknownRequester(t *testing.T) {
	svc := newTestService(fixtureUsers(1), &mockTournamentRepo{}, &mockTeamRepo{}, &mockLFTRepo{}, 0)

	if _, err := svc.Run(context.Background(), 99, "Valorant", "", 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRunExcludesRequesterAndTeammates(t *testing.T) {
	users := fixtureUsers(5)
	svc := newTestService(users,
		&mockTournamentRepo{participants: idsFrom(users), participations: map[uint]int{}},
		&mockTeamRepo{teammates: []uint{2}},
		&mockLFTRepo{}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, rec := range got {
		if rec.UserID == 1 {
			t.Error("requester must not be recommended to themselves")
		}
		if rec.UserID == 2 {
			t.Error("current teammates must be excluded")
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d recommendations, want 3", len(got))
	}
}

func TestRunCapsAtTwiceTeamSize(t *testing.T) {
	users := fixtureUsers(20)
	svc := newTestService(users,
		&mockTournamentRepo{participants: idsFrom(users), participations: map[uint]int{}},
		&mockTeamRepo{}, &mockLFTRepo{}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d recommendations, want 2×team_size = 4", len(got))
	}
}

func TestRunScoresWithinBounds(t *testing.T) {
	users := fixtureUsers(10)
	users[5].XPPoints = 900000 // extreme elo gap
	svc := newTestService(users,
		&mockTournamentRepo{
			participants:   idsFrom(users),
			participations: map[uint]int{1: 3, 5: 1},
			common:         map[uint]int{3: 7},
		},
		&mockTeamRepo{}, &mockLFTRepo{}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 5)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, rec := range got {
		if rec.TotalScore < 0 || rec.TotalScore > 100 {
			t.Errorf("user %d total score %v outside [0, 100]", rec.UserID, rec.TotalScore)
		}
	}
}

func TestRunSynergyCapsAtThreeCommon(t *testing.T) {
	users := fixtureUsers(3)
	svc := newTestService(users,
		&mockTournamentRepo{
			participants:   idsFrom(users),
			participations: map[uint]int{},
			common:         map[uint]int{2: 3, 3: 9},
		},
		&mockTeamRepo{}, &mockLFTRepo{}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, rec := range got {
		if !almostEqual(rec.Components.SynergyScore, 0.3) {
			t.Errorf("user %d synergy = %v, want capped 0.3", rec.UserID, rec.Components.SynergyScore)
		}
	}
}

func TestRunRegionNarrowsPool(t *testing.T) {
	users := fixtureUsers(6)
	svc := newTestService(users,
		&mockTournamentRepo{participants: idsFrom(users), participations: map[uint]int{}},
		&mockTeamRepo{},
		&mockLFTRepo{matched: []uint{3, 4}}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "EUW", 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d recommendations, want the 2 region matches", len(got))
	}
	for _, rec := range got {
		if rec.UserID != 3 && rec.UserID != 4 {
			t.Errorf("user %d should have been filtered out by region", rec.UserID)
		}
		if !almostEqual(rec.Components.RegionScore, 0.3) {
			t.Errorf("user %d region score = %v, want 0.3", rec.UserID, rec.Components.RegionScore)
		}
	}
}

func TestRunTieBreaksByUserID(t *testing.T) {
	users := fixtureUsers(5)
	svc := newTestService(users,
		&mockTournamentRepo{participants: []uint{5, 3, 4, 2}, participations: map[uint]int{}},
		&mockTeamRepo{}, &mockLFTRepo{}, 0)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Identical profiles produce identical scores; order must be id asc.
	for i := 1; i < len(got); i++ {
		if got[i-1].UserID > got[i].UserID {
			t.Fatalf("tie-break violated: %d before %d", got[i-1].UserID, got[i].UserID)
		}
	}
}

func TestRunHonorsPoolLimit(t *testing.T) {
	users := fixtureUsers(8)
	svc := newTestService(users,
		&mockTournamentRepo{participants: idsFrom(users), participations: map[uint]int{}},
		&mockTeamRepo{}, &mockLFTRepo{}, 3)

	got, err := svc.Run(context.Background(), 1, "Valorant", "", 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d recommendations, want pool-limited 3", len(got))
	}
}
