package services

import (
	"clanwatch/internal/models"
	"sort"
)

const (
	MaxRankingLimit  = 50
	seenReportSize   = 5
	activityListSize = 10
	// attackWeight is how many donations one war attack is worth.
	attackWeight = 10
)

// NormalizeLimit maps a caller supplied limit into 1..MaxRankingLimit; zero or negative means the default.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxRankingLimit {
		return MaxRankingLimit
	}
	return limit
}

// RankMembersByTrophies sorts members by trophies, highest first. Equal
// trophies keep their input order.
func RankMembersByTrophies(clanTag string, members []models.ClanMember, limit int) *models.MemberRanking {
	sorted := make([]models.ClanMember, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Trophies > sorted[j].Trophies
	})

	limit = NormalizeLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	ranked := make([]models.RankedMember, 0, len(sorted))
	for i, m := range sorted {
		ranked = append(ranked, models.RankedMember{
			Rank:     i + 1,
			Tag:      m.Tag,
			Name:     m.Name,
			Trophies: m.Trophies,
		})
	}
	return &models.MemberRanking{ClanTag: clanTag, Members: ranked}
}

func warProgress(war *models.War) *models.WarProgress {
	progress := &models.WarProgress{
		State:        war.State,
		Stars:        war.Clan.Stars,
		AttacksTotal: war.TeamSize * war.AttacksPerMemberOrDefault(),
	}
	for _, m := range war.Clan.Members {
		used := m.AttacksUsed()
		progress.AttacksUsed += used
		if used > 0 {
			progress.MembersAttacked++
		}
	}
	if progress.AttacksUsed == 0 {
		progress.AttacksUsed = war.Clan.Attacks
	}
	return progress
}

func seenMembers(members []models.ClanMember, n int) []models.SeenMember {
	if len(members) > n {
		members = members[:n]
	}
	out := make([]models.SeenMember, 0, len(members))
	for _, m := range members {
		out = append(out, models.SeenMember{Tag: m.Tag, Name: m.Name, LastSeen: m.LastSeenOrDefault()})
	}
	return out
}

// BuildActivityReport summarizes trophies and last activity of the clan. The
// war section is filled only while war is non-nil and in progress.
func BuildActivityReport(clan *models.Clan, war *models.War) *models.ActivityReport {
	report := &models.ActivityReport{
		ClanTag:     clan.Tag,
		MemberCount: len(clan.MemberList),
	}
	for _, m := range clan.MemberList {
		report.TotalTrophies += m.Trophies
	}
	if report.MemberCount > 0 {
		report.AverageTrophies = float64(report.TotalTrophies) / float64(report.MemberCount)
	}
	if war != nil && war.InProgress() {
		report.War = warProgress(war)
	}

	// ISO-8601 strings compare lexicographically in time order.
	recent := make([]models.ClanMember, len(clan.MemberList))
	copy(recent, clan.MemberList)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].LastSeenOrDefault() > recent[j].LastSeenOrDefault()
	})
	report.MostRecent = seenMembers(recent, seenReportSize)

	stale := make([]models.ClanMember, len(clan.MemberList))
	copy(stale, clan.MemberList)
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].LastSeenOrDefault() < stale[j].LastSeenOrDefault()
	})
	report.LeastRecent = seenMembers(stale, seenReportSize)

	return report
}

// ActivityScore is donations plus ten points per war attack used.
func ActivityScore(donations, warAttacks int) int {
	return donations + attackWeight*warAttacks
}

// ScorePlayerActivity ranks members by ActivityScore. War attacks count only
// while the war is in progress.
func ScorePlayerActivity(clan *models.Clan, war *models.War) *models.PlayerActivityReport {
	attacks := make(map[string]int)
	warActive := war != nil && war.InProgress()
	if warActive {
		for _, m := range war.Clan.Members {
			attacks[m.Tag] = m.AttacksUsed()
		}
	}

	scored := make([]models.PlayerActivity, 0, len(clan.MemberList))
	for _, m := range clan.MemberList {
		used := attacks[m.Tag]
		scored = append(scored, models.PlayerActivity{
			Tag:           m.Tag,
			Name:          m.Name,
			Donations:     m.Donations,
			WarAttacks:    used,
			ActivityScore: ActivityScore(m.Donations, used),
		})
	}

	most := make([]models.PlayerActivity, len(scored))
	copy(most, scored)
	sort.SliceStable(most, func(i, j int) bool { return most[i].ActivityScore > most[j].ActivityScore })

	least := make([]models.PlayerActivity, len(scored))
	copy(least, scored)
	sort.SliceStable(least, func(i, j int) bool { return least[i].ActivityScore < least[j].ActivityScore })

	if len(most) > activityListSize {
		most = most[:activityListSize]
		least = least[:activityListSize]
	}

	return &models.PlayerActivityReport{
		ClanTag:     clan.Tag,
		WarActive:   warActive,
		MostActive:  most,
		LeastActive: least,
	}
}
