package services

import (
	"clanwatch/internal/models"
	"sort"
)

const warPreferenceBonus = 50

// ReadinessInput carries everything known about one member before scoring.
// Player is nil when the per-member lookup failed.
type ReadinessInput struct {
	Member models.ClanMember
	Player *models.Player
}

// CombatScore = 2*heroes + equipment + exp level +-50 for war preference + trophies/100.
func CombatScore(heroLevelSum, equipmentLevelSum, expLevel int, warPreference string, trophies int) int {
	score := 2*heroLevelSum + equipmentLevelSum + expLevel + trophies/100
	if warPreference == models.WarPreferenceIn {
		score += warPreferenceBonus
	} else {
		score -= warPreferenceBonus
	}
	return score
}

// WarReadiness = 50*last war stars + last war destruction + combat score + war stars/10 + league id/1000.
func WarReadiness(lastWarStars int, lastWarDestruction float64, combatScore, warStars, leagueID int) float64 {
	return 50*float64(lastWarStars) +
		lastWarDestruction +
		float64(combatScore) +
		float64(warStars)/10 +
		float64(leagueID)/1000
}

func lastWarMembers(entry *models.WarLogEntry) map[string]models.WarMember {
	out := make(map[string]models.WarMember)
	if entry == nil {
		return out
	}
	for _, m := range entry.Clan.Members {
		out[m.Tag] = m
	}
	return out
}

func readinessEntry(in ReadinessInput, lastWar map[string]models.WarMember) models.ReadinessEntry {
	entry := models.ReadinessEntry{
		Tag:      in.Member.Tag,
		Name:     in.Member.Name,
		ExpLevel: in.Member.ExpLevel,
		Trophies: in.Member.Trophies,
	}
	if in.Member.League != nil {
		entry.LeagueID = in.Member.League.ID
	}

	if p := in.Player; p != nil {
		entry.HeroLevelSum = p.HeroLevelSum()
		entry.EquipmentLevelSum = p.EquipmentLevelSum()
		entry.ExpLevel = p.ExpLevel
		entry.WarPreference = p.WarPreference
		entry.Trophies = p.Trophies
		entry.WarStars = p.WarStars
		if id := p.LeagueID(); id != 0 {
			entry.LeagueID = id
		}
	} else {
		entry.Degraded = true
	}

	if m, ok := lastWar[in.Member.Tag]; ok {
		entry.LastWarStars = m.TotalStars()
		entry.LastWarDestruction = m.MeanDestruction()
	}

	entry.CombatScore = CombatScore(entry.HeroLevelSum, entry.EquipmentLevelSum, entry.ExpLevel, entry.WarPreference, entry.Trophies)
	entry.WarReadiness = WarReadiness(entry.LastWarStars, entry.LastWarDestruction, entry.CombatScore, entry.WarStars, entry.LeagueID)
	return entry
}

// RankWarReadiness scores every member and sorts by readiness, highest
// first; ties keep input order. lastWar is the most recent war-log entry and
// may be nil.
func RankWarReadiness(inputs []ReadinessInput, lastWar *models.WarLogEntry) []models.ReadinessEntry {
	byTag := lastWarMembers(lastWar)
	entries := make([]models.ReadinessEntry, 0, len(inputs))
	for _, in := range inputs {
		entries = append(entries, readinessEntry(in, byTag))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].WarReadiness > entries[j].WarReadiness
	})
	return entries
}
