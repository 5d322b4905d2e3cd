package models

type RankedMember struct {
	Rank     int    `json:"rank"`
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Trophies int    `json:"trophies"`
}

type MemberRanking struct {
	ClanTag string         `json:"clan_tag"`
	Members []RankedMember `json:"members"`
}

type SeenMember struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	LastSeen string `json:"last_seen"`
}

type WarProgress struct {
	State           string `json:"state"`
	Stars           int    `json:"stars"`
	AttacksUsed     int    `json:"attacks_used"`
	AttacksTotal    int    `json:"attacks_total"`
	MembersAttacked int    `json:"members_attacked"`
}

type ActivityReport struct {
	ClanTag         string       `json:"clan_tag"`
	MemberCount     int          `json:"member_count"`
	TotalTrophies   int          `json:"total_trophies"`
	AverageTrophies float64      `json:"average_trophies"`
	War             *WarProgress `json:"war,omitempty"`
	MostRecent      []SeenMember `json:"most_recent"`
	LeastRecent     []SeenMember `json:"least_recent"`
}

type PlayerActivity struct {
	Tag           string `json:"tag"`
	Name          string `json:"name"`
	Donations     int    `json:"donations"`
	WarAttacks    int    `json:"war_attacks"`
	ActivityScore int    `json:"activity_score"`
}

type PlayerActivityReport struct {
	ClanTag     string           `json:"clan_tag"`
	WarActive   bool             `json:"war_active"`
	MostActive  []PlayerActivity `json:"most_active"`
	LeastActive []PlayerActivity `json:"least_active"`
}

type ReadinessEntry struct {
	Tag                string  `json:"tag"`
	Name               string  `json:"name"`
	LastWarStars       int     `json:"last_war_stars"`
	LastWarDestruction float64 `json:"last_war_destruction"`
	HeroLevelSum       int     `json:"hero_level_sum"`
	EquipmentLevelSum  int     `json:"equipment_level_sum"`
	ExpLevel           int     `json:"exp_level"`
	WarPreference      string  `json:"war_preference"`
	Trophies           int     `json:"trophies"`
	WarStars           int     `json:"war_stars"`
	LeagueID           int     `json:"league_id"`
	CombatScore        int     `json:"combat_score"`
	WarReadiness       float64 `json:"war_readiness"`
	Degraded           bool    `json:"degraded,omitempty"`
}

type ReadinessReport struct {
	ClanTag          string           `json:"clan_tag"`
	CurrentWarState  string           `json:"current_war_state,omitempty"`
	LeagueGroupState string           `json:"league_group_state,omitempty"`
	LastWarEndTime   string           `json:"last_war_end_time,omitempty"`
	Members          []ReadinessEntry `json:"members"`
}

// EventSnapshot describes the latest capital raid or clan games season.
// Available is false when the upstream data could not be read.
type EventSnapshot struct {
	Kind      string         `json:"kind"`
	Available bool           `json:"available"`
	State     string         `json:"state,omitempty"`
	Ongoing   bool           `json:"ongoing"`
	StartTime string         `json:"start_time,omitempty"`
	EndTime   string         `json:"end_time,omitempty"`
	Detail    map[string]int `json:"detail,omitempty"`
}
