package service

import (
	"github.com/dom/haikyu-team-builder/internal/builder"
	"github.com/dom/haikyu-team-builder/internal/cache"
	"github.com/dom/haikyu-team-builder/internal/config"
	"github.com/dom/haikyu-team-builder/internal/metrics"
	"github.com/dom/haikyu-team-builder/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Roster    *RosterService
	Character *CharacterService
	Image     *ImageService
	Builder   *BuilderService
	SavedTeam *SavedTeamService
}

func NewServices(
	repos *repository.Repositories,
	rosterCache cache.RosterCache,
	recorder *metrics.Recorder,
	cfg *config.Config,
	logger *zap.Logger,
) (*Services, error) {
	identity, err := builder.ParseIdentity(cfg.IdentityMode)
	if err != nil {
		return nil, err
	}

	roster := NewRosterService(repos.Character, repos.Bond, repos.CharacterBond, rosterCache, recorder, logger.Named("roster"))
	sessions := NewBuilderService(builder.New(identity), roster, recorder, logger.Named("builder"), cfg.SessionIdleTimeout)

	return &Services{
		Roster:    roster,
		Character: NewCharacterService(repos, roster, logger.Named("characters")),
		Image:     NewImageService(cfg),
		Builder:   sessions,
		SavedTeam: NewSavedTeamService(repos.DeviceStorage, roster, sessions, recorder, logger.Named("saved_teams")),
	}, nil
}
