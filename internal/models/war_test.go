package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpstreamTime_WithFraction(t *testing.T) {
	ts, err := ParseUpstreamTime("20240315T183000.000Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), ts)
}

func TestParseUpstreamTime_WithoutFraction(t *testing.T) {
	ts, err := ParseUpstreamTime("20240315T183000Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC), ts)
}

func TestParseUpstreamTime_Invalid(t *testing.T) {
	for _, v := range []string{"", "2024-03-15T18:30:00Z", "garbage"} {
		_, err := ParseUpstreamTime(v)
		assert.Error(t, err, v)
	}
}

func TestWarMember_AttackFigures(t *testing.T) {
	m := WarMember{Attacks: []WarAttack{
		{Stars: 3, DestructionPercentage: 100},
		{Stars: 1, DestructionPercentage: 50},
	}}
	assert.Equal(t, 2, m.AttacksUsed())
	assert.Equal(t, 4, m.TotalStars())
	assert.Equal(t, 75.0, m.MeanDestruction())

	empty := WarMember{}
	assert.Equal(t, 0, empty.AttacksUsed())
	assert.Equal(t, 0.0, empty.MeanDestruction())
}

func TestWar_AttacksPerMemberDefault(t *testing.T) {
	assert.Equal(t, 2, War{}.AttacksPerMemberOrDefault())
	assert.Equal(t, 1, War{AttacksPerMember: 1}.AttacksPerMemberOrDefault())
}

func TestWarLog_Latest(t *testing.T) {
	_, ok := WarLog{}.Latest()
	assert.False(t, ok)

	log := WarLog{Items: []WarLogEntry{{EndTime: "new"}, {EndTime: "old"}}}
	latest, ok := log.Latest()
	assert.True(t, ok)
	assert.Equal(t, "new", latest.EndTime)
}

func TestPlayer_Sums(t *testing.T) {
	p := Player{
		Heroes:        []Hero{{Level: 90}, {Level: 85}},
		HeroEquipment: []Equipment{{Level: 18}, {Level: 27}},
	}
	assert.Equal(t, 175, p.HeroLevelSum())
	assert.Equal(t, 45, p.EquipmentLevelSum())
	assert.Equal(t, 0, p.LeagueID())

	p.League = &League{ID: 29000022}
	assert.Equal(t, 29000022, p.LeagueID())
}

func TestClanMember_LastSeenDefault(t *testing.T) {
	assert.Equal(t, DefaultLastSeen, ClanMember{}.LastSeenOrDefault())
	seen := "2024-03-01T10:00:00.000Z"
	assert.Equal(t, seen, ClanMember{LastSeen: &seen}.LastSeenOrDefault())
}
