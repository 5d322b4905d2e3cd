package services

import "clanwatch/internal/models"

const (
	EventKindRaid      = "raid"
	EventKindClanGames = "games"
)

func isOngoing(state string) bool {
	return state == models.EventStateOngoing || state == models.EventStateInProgress
}

// RaidSnapshot reads the latest capital raid season. Loot detail is attached
// only while the season is running.
func RaidSnapshot(seasons *models.CapitalRaidSeasons) models.EventSnapshot {
	snap := models.EventSnapshot{Kind: EventKindRaid}
	if seasons == nil || len(seasons.Items) == 0 {
		return snap
	}
	latest := seasons.Items[0]
	snap.Available = true
	snap.State = latest.State
	snap.StartTime = latest.StartTime
	snap.EndTime = latest.EndTime
	if isOngoing(latest.State) {
		snap.Ongoing = true
		snap.Detail = map[string]int{
			"capital_total_loot":        latest.CapitalTotalLoot,
			"raids_completed":           latest.RaidsCompleted,
			"total_attacks":             latest.TotalAttacks,
			"enemy_districts_destroyed": latest.EnemyDistrictsDestroyed,
			"offensive_reward":          latest.OffensiveReward,
			"defensive_reward":          latest.DefensiveReward,
		}
	}
	return snap
}

// ClanGamesSnapshot reads the latest clan games season.
func ClanGamesSnapshot(seasons *models.ClanGamesSeasons) models.EventSnapshot {
	snap := models.EventSnapshot{Kind: EventKindClanGames}
	if seasons == nil || len(seasons.Items) == 0 {
		return snap
	}
	latest := seasons.Items[0]
	snap.Available = true
	snap.State = latest.State
	snap.StartTime = latest.StartTime
	snap.EndTime = latest.EndTime
	if isOngoing(latest.State) {
		snap.Ongoing = true
		snap.Detail = map[string]int{
			"points":     latest.Points,
			"max_points": latest.MaxPoints,
		}
	}
	return snap
}
