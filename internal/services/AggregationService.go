package services

import (
	"clanwatch/internal/models"
	"clanwatch/internal/providers"
	"clanwatch/internal/upstream"
	"context"

	"golang.org/x/sync/errgroup"
)

// playerLookupConcurrency bounds parallel per-member player fetches in readiness reports.
const playerLookupConcurrency = 4

type AggregationServiceInterface interface {
	GetMemberRanking(ctx context.Context, clanTag string, limit int) (*models.MemberRanking, error)
	GetActivityReport(ctx context.Context, clanTag string) (*models.ActivityReport, error)
	GetPlayerActivity(ctx context.Context, clanTag string) (*models.PlayerActivityReport, error)
	GetWarReadiness(ctx context.Context, clanTag string) (*models.ReadinessReport, error)
	GetRaidSnapshot(ctx context.Context, clanTag string) models.EventSnapshot
	GetClanGamesSnapshot(ctx context.Context, clanTag string) models.EventSnapshot
}

type AggregationService struct {
	client upstream.ClientInterface
	logger providers.Logger
}

func NewAggregationService(client upstream.ClientInterface, logger providers.Logger) AggregationServiceInterface {
	return &AggregationService{client: client, logger: logger}
}

func (as *AggregationService) GetMemberRanking(ctx context.Context, clanTag string, limit int) (*models.MemberRanking, error) {
	clan, err := as.client.GetClan(ctx, clanTag)
	if err != nil {
		return nil, err
	}
	return RankMembersByTrophies(clan.Tag, clan.MemberList, limit), nil
}

// optionalWar fetches the current war; failures only drop the war section.
func (as *AggregationService) optionalWar(ctx context.Context, clanTag string) *models.War {
	war, err := as.client.GetWar(ctx, clanTag)
	if err != nil {
		as.logger.Warnf(providers.TypeUpstream, "current war for %s unavailable: %s", clanTag, err)
		return nil
	}
	return war
}

func (as *AggregationService) GetActivityReport(ctx context.Context, clanTag string) (*models.ActivityReport, error) {
	clan, err := as.client.GetClan(ctx, clanTag)
	if err != nil {
		return nil, err
	}
	return BuildActivityReport(clan, as.optionalWar(ctx, clanTag)), nil
}

func (as *AggregationService) GetPlayerActivity(ctx context.Context, clanTag string) (*models.PlayerActivityReport, error) {
	clan, err := as.client.GetClan(ctx, clanTag)
	if err != nil {
		return nil, err
	}
	return ScorePlayerActivity(clan, as.optionalWar(ctx, clanTag)), nil
}

// GetWarReadiness issues one player lookup per clan member on top of the
// clan, war, war log and league group reads. Only the clan read is fatal.
func (as *AggregationService) GetWarReadiness(ctx context.Context, clanTag string) (*models.ReadinessReport, error) {
	clan, err := as.client.GetClan(ctx, clanTag)
	if err != nil {
		return nil, err
	}

	report := &models.ReadinessReport{ClanTag: clan.Tag}
	if war := as.optionalWar(ctx, clanTag); war != nil {
		report.CurrentWarState = war.State
	}
	if group, err := as.client.GetCurrentWarLeagueGroup(ctx, clanTag); err != nil {
		as.logger.Debugf(providers.TypeUpstream, "league group for %s unavailable: %s", clanTag, err)
	} else {
		report.LeagueGroupState = group.State
	}

	var lastWar *models.WarLogEntry
	if log, err := as.client.GetWarLog(ctx, clanTag); err != nil {
		as.logger.Warnf(providers.TypeUpstream, "war log for %s unavailable: %s", clanTag, err)
	} else if latest, ok := log.Latest(); ok {
		lastWar = &latest
		report.LastWarEndTime = latest.EndTime
	}

	inputs := make([]ReadinessInput, len(clan.MemberList))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(playerLookupConcurrency)
	for i, member := range clan.MemberList {
		inputs[i].Member = member
		g.Go(func() error {
			player, err := as.client.GetPlayer(gctx, member.Tag)
			if err != nil {
				as.logger.Warnf(providers.TypeUpstream, "player %s lookup failed, scoring degraded: %s", member.Tag, err)
				return nil
			}
			inputs[i].Player = player
			return nil
		})
	}
	_ = g.Wait()

	report.Members = RankWarReadiness(inputs, lastWar)
	return report, nil
}

func (as *AggregationService) GetRaidSnapshot(ctx context.Context, clanTag string) models.EventSnapshot {
	seasons, err := as.client.GetCapitalRaidSeasons(ctx, clanTag)
	if err != nil {
		as.logger.Warnf(providers.TypeUpstream, "capital raid seasons for %s unavailable: %s", clanTag, err)
		return models.EventSnapshot{Kind: EventKindRaid}
	}
	return RaidSnapshot(seasons)
}

func (as *AggregationService) GetClanGamesSnapshot(ctx context.Context, clanTag string) models.EventSnapshot {
	seasons, err := as.client.GetClanGamesSeasons(ctx, clanTag)
	if err != nil {
		as.logger.Warnf(providers.TypeUpstream, "clan games for %s unavailable: %s", clanTag, err)
		return models.EventSnapshot{Kind: EventKindClanGames}
	}
	return ClanGamesSnapshot(seasons)
}
