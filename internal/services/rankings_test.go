package services

import (
	"clanwatch/internal/models"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func member(tag string, trophies int) models.ClanMember {
	return models.ClanMember{Tag: tag, Name: "name" + tag, Trophies: trophies}
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, 50, NormalizeLimit(0))
	assert.Equal(t, 50, NormalizeLimit(-3))
	assert.Equal(t, 50, NormalizeLimit(500))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, 50, NormalizeLimit(50))
}

func TestRankMembersByTrophies_StableOnTies(t *testing.T) {
	members := []models.ClanMember{
		member("#A", 3000),
		member("#B", 4000),
		member("#C", 3000),
		member("#D", 4000),
	}
	ranking := RankMembersByTrophies("#CLAN", members, 10)

	require.Len(t, ranking.Members, 4)
	tags := []string{}
	for _, m := range ranking.Members {
		tags = append(tags, m.Tag)
	}
	assert.Equal(t, []string{"#B", "#D", "#A", "#C"}, tags)
	assert.Equal(t, 1, ranking.Members[0].Rank)
	assert.Equal(t, 4, ranking.Members[3].Rank)
	assert.Equal(t, "#CLAN", ranking.ClanTag)
	assert.Equal(t, "#A", members[0].Tag, "input must not be reordered")
}

func TestRankMembersByTrophies_Truncates(t *testing.T) {
	var members []models.ClanMember
	for i := 0; i < 60; i++ {
		members = append(members, member(fmt.Sprintf("#%d", i), i))
	}
	assert.Len(t, RankMembersByTrophies("#C", members, 5).Members, 5)
	assert.Len(t, RankMembersByTrophies("#C", members, 0).Members, 50)
	assert.Len(t, RankMembersByTrophies("#C", members, 100).Members, 50)
	assert.Empty(t, RankMembersByTrophies("#C", nil, 5).Members)
}

func TestBuildActivityReport_NoWar(t *testing.T) {
	clan := &models.Clan{
		Tag: "#CLAN",
		MemberList: []models.ClanMember{
			{Tag: "#A", Trophies: 1000, LastSeen: strPtr("2024-05-01T10:00:00.000Z")},
			{Tag: "#B", Trophies: 2000},
			{Tag: "#C", Trophies: 3000, LastSeen: strPtr("2024-05-02T10:00:00.000Z")},
		},
	}
	report := BuildActivityReport(clan, &models.War{State: models.WarStatePreparation})

	assert.Equal(t, 3, report.MemberCount)
	assert.Equal(t, 6000, report.TotalTrophies)
	assert.InDelta(t, 2000.0, report.AverageTrophies, 0.0001)
	assert.Nil(t, report.War)

	require.Len(t, report.MostRecent, 3)
	assert.Equal(t, "#C", report.MostRecent[0].Tag)
	assert.Equal(t, "#B", report.MostRecent[2].Tag)
	assert.Equal(t, models.DefaultLastSeen, report.MostRecent[2].LastSeen)

	require.Len(t, report.LeastRecent, 3)
	assert.Equal(t, "#B", report.LeastRecent[0].Tag)
	assert.Equal(t, "#C", report.LeastRecent[2].Tag)
}

func TestBuildActivityReport_TopAndBottomFive(t *testing.T) {
	clan := &models.Clan{Tag: "#CLAN"}
	for i := 0; i < 8; i++ {
		clan.MemberList = append(clan.MemberList, models.ClanMember{
			Tag:      fmt.Sprintf("#%d", i),
			LastSeen: strPtr(fmt.Sprintf("2024-05-0%dT00:00:00.000Z", i+1)),
		})
	}
	report := BuildActivityReport(clan, nil)

	require.Len(t, report.MostRecent, 5)
	require.Len(t, report.LeastRecent, 5)
	assert.Equal(t, "#7", report.MostRecent[0].Tag)
	assert.Equal(t, "#0", report.LeastRecent[0].Tag)
}

func TestBuildActivityReport_EmptyClan(t *testing.T) {
	report := BuildActivityReport(&models.Clan{Tag: "#CLAN"}, nil)
	assert.Equal(t, 0, report.MemberCount)
	assert.Equal(t, 0.0, report.AverageTrophies)
	assert.Empty(t, report.MostRecent)
}

func TestBuildActivityReport_WarInProgress(t *testing.T) {
	war := &models.War{
		State:            models.WarStateInWar,
		TeamSize:         3,
		AttacksPerMember: 2,
		Clan: models.WarClan{
			Stars: 7,
			Members: []models.WarMember{
				{Tag: "#A", Attacks: []models.WarAttack{{Stars: 3}, {Stars: 2}}},
				{Tag: "#B", Attacks: []models.WarAttack{{Stars: 2}}},
				{Tag: "#C"},
			},
		},
	}
	report := BuildActivityReport(&models.Clan{Tag: "#CLAN"}, war)

	require.NotNil(t, report.War)
	assert.Equal(t, models.WarStateInWar, report.War.State)
	assert.Equal(t, 7, report.War.Stars)
	assert.Equal(t, 3, report.War.AttacksUsed)
	assert.Equal(t, 6, report.War.AttacksTotal)
	assert.Equal(t, 2, report.War.MembersAttacked)
}

func TestActivityScore(t *testing.T) {
	assert.Equal(t, 70, ActivityScore(50, 2))
	assert.Equal(t, 80, ActivityScore(80, 0))
}

func TestScorePlayerActivity_DonationsBeatAttacks(t *testing.T) {
	clan := &models.Clan{
		Tag: "#CLAN",
		MemberList: []models.ClanMember{
			{Tag: "#A", Donations: 50},
			{Tag: "#B", Donations: 80},
		},
	}
	war := &models.War{
		State: models.WarStateInWar,
		Clan: models.WarClan{Members: []models.WarMember{
			{Tag: "#A", Attacks: []models.WarAttack{{}, {}}},
		}},
	}
	report := ScorePlayerActivity(clan, war)

	assert.True(t, report.WarActive)
	require.Len(t, report.MostActive, 2)
	assert.Equal(t, "#B", report.MostActive[0].Tag)
	assert.Equal(t, 80, report.MostActive[0].ActivityScore)
	assert.Equal(t, "#A", report.MostActive[1].Tag)
	assert.Equal(t, 70, report.MostActive[1].ActivityScore)
	assert.Equal(t, 2, report.MostActive[1].WarAttacks)
	assert.Equal(t, "#A", report.LeastActive[0].Tag)
}

func TestScorePlayerActivity_IgnoresAttacksOutsideWar(t *testing.T) {
	clan := &models.Clan{MemberList: []models.ClanMember{{Tag: "#A", Donations: 5}}}
	war := &models.War{
		State: models.WarStateEnded,
		Clan:  models.WarClan{Members: []models.WarMember{{Tag: "#A", Attacks: []models.WarAttack{{}}}}},
	}
	report := ScorePlayerActivity(clan, war)

	assert.False(t, report.WarActive)
	assert.Equal(t, 5, report.MostActive[0].ActivityScore)
	assert.Equal(t, 0, report.MostActive[0].WarAttacks)
}

func TestScorePlayerActivity_StableAndTruncated(t *testing.T) {
	clan := &models.Clan{}
	for i := 0; i < 15; i++ {
		clan.MemberList = append(clan.MemberList, models.ClanMember{Tag: fmt.Sprintf("#%d", i), Donations: 10})
	}
	report := ScorePlayerActivity(clan, nil)

	require.Len(t, report.MostActive, 10)
	require.Len(t, report.LeastActive, 10)
	assert.Equal(t, "#0", report.MostActive[0].Tag)
	assert.Equal(t, "#9", report.MostActive[9].Tag)
	assert.Equal(t, "#0", report.LeastActive[0].Tag)
}
