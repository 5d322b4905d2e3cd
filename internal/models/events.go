package models

const (
	EventStateOngoing    = "ongoing"
	EventStateInProgress = "inProgress"
)

type CapitalRaidSeason struct {
	State                   string `json:"state"`
	StartTime               string `json:"startTime"`
	EndTime                 string `json:"endTime"`
	CapitalTotalLoot        int    `json:"capitalTotalLoot"`
	RaidsCompleted          int    `json:"raidsCompleted"`
	TotalAttacks            int    `json:"totalAttacks"`
	EnemyDistrictsDestroyed int    `json:"enemyDistrictsDestroyed"`
	OffensiveReward         int    `json:"offensiveReward"`
	DefensiveReward         int    `json:"defensiveReward"`
}

type CapitalRaidSeasons struct {
	Items []CapitalRaidSeason `json:"items"`
}

type ClanGamesSeason struct {
	State     string `json:"state"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"maxPoints"`
}

type ClanGamesSeasons struct {
	Items []ClanGamesSeason `json:"items"`
}
