package services

import (
	"clanwatch/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombatScore(t *testing.T) {
	assert.Equal(t, 862, CombatScore(300, 50, 120, "in", 4200))
	assert.Equal(t, 762, CombatScore(300, 50, 120, "out", 4200))
	assert.Equal(t, -50+1, CombatScore(0, 0, 0, "", 199))
}

func TestWarReadiness(t *testing.T) {
	assert.InDelta(t, 1117.5, WarReadiness(3, 45.5, 862, 80, 52000), 1e-9)
	assert.InDelta(t, 0.0, WarReadiness(0, 0, 0, 0, 0), 1e-9)
}

func heroPlayer(tag string, heroLevels ...int) *models.Player {
	p := &models.Player{
		Tag:           tag,
		ExpLevel:      120,
		Trophies:      4200,
		WarStars:      80,
		WarPreference: models.WarPreferenceIn,
		League:        &models.League{ID: 52000},
		HeroEquipment: []models.Equipment{{Level: 20}, {Level: 30}},
	}
	for _, lvl := range heroLevels {
		p.Heroes = append(p.Heroes, models.Hero{Level: lvl})
	}
	return p
}

func TestRankWarReadiness_WorkedExample(t *testing.T) {
	lastWar := &models.WarLogEntry{
		Clan: models.WarClan{Members: []models.WarMember{{
			Tag:     "#A",
			Attacks: []models.WarAttack{{Stars: 2, DestructionPercentage: 41}, {Stars: 1, DestructionPercentage: 50}},
		}}},
	}
	inputs := []ReadinessInput{{
		Member: models.ClanMember{Tag: "#A", Name: "alpha"},
		Player: heroPlayer("#A", 100, 100, 100),
	}}

	entries := RankWarReadiness(inputs, lastWar)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, 300, e.HeroLevelSum)
	assert.Equal(t, 50, e.EquipmentLevelSum)
	assert.Equal(t, 3, e.LastWarStars)
	assert.InDelta(t, 45.5, e.LastWarDestruction, 1e-9)
	assert.Equal(t, 862, e.CombatScore)
	assert.InDelta(t, 1117.5, e.WarReadiness, 1e-9)
	assert.False(t, e.Degraded)
}

func TestRankWarReadiness_DegradesFailedLookup(t *testing.T) {
	inputs := []ReadinessInput{
		{Member: models.ClanMember{Tag: "#A", ExpLevel: 100, Trophies: 3000, League: &models.League{ID: 29000}}},
	}
	entries := RankWarReadiness(inputs, nil)

	require.Len(t, entries, 1)
	e := entries[0]
	assert.True(t, e.Degraded)
	assert.Equal(t, 0, e.HeroLevelSum)
	assert.Equal(t, 0, e.EquipmentLevelSum)
	assert.Equal(t, 100+30-50, e.CombatScore)
	assert.InDelta(t, 80+29.0, e.WarReadiness, 1e-9)
}

func TestRankWarReadiness_SortedAndStable(t *testing.T) {
	inputs := []ReadinessInput{
		{Member: models.ClanMember{Tag: "#LOW"}, Player: &models.Player{ExpLevel: 10}},
		{Member: models.ClanMember{Tag: "#TIE1"}, Player: &models.Player{ExpLevel: 50}},
		{Member: models.ClanMember{Tag: "#HIGH"}, Player: &models.Player{ExpLevel: 90}},
		{Member: models.ClanMember{Tag: "#TIE2"}, Player: &models.Player{ExpLevel: 50}},
	}
	entries := RankWarReadiness(inputs, nil)

	tags := make([]string, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, e.Tag)
	}
	assert.Equal(t, []string{"#HIGH", "#TIE1", "#TIE2", "#LOW"}, tags)
}

func TestRankWarReadiness_AbsentFromLastWar(t *testing.T) {
	lastWar := &models.WarLogEntry{Clan: models.WarClan{Members: []models.WarMember{{Tag: "#OTHER", Attacks: []models.WarAttack{{Stars: 3}}}}}}
	entries := RankWarReadiness([]ReadinessInput{{Member: models.ClanMember{Tag: "#A"}, Player: &models.Player{}}}, lastWar)

	assert.Equal(t, 0, entries[0].LastWarStars)
	assert.Equal(t, 0.0, entries[0].LastWarDestruction)
}
