package models

import (
	"fmt"
	"time"
)

const (
	WarStateNotInWar    = "notInWar"
	WarStatePreparation = "preparation"
	WarStateInWar       = "inWar"
	WarStateEnded       = "warEnded"
)

// Upstream timestamps come with and without fractional seconds.
var upstreamTimeLayouts = []string{
	"20060102T150405.000Z",
	"20060102T150405Z",
}

// ParseUpstreamTime parses the compact UTC timestamp format used by the game API.
func ParseUpstreamTime(value string) (time.Time, error) {
	for _, layout := range upstreamTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised upstream timestamp %q", value)
}

type WarAttack struct {
	AttackerTag           string  `json:"attackerTag"`
	DefenderTag           string  `json:"defenderTag"`
	Stars                 int     `json:"stars"`
	DestructionPercentage float64 `json:"destructionPercentage"`
	Order                 int     `json:"order"`
}

type WarMember struct {
	Tag         string      `json:"tag"`
	Name        string      `json:"name"`
	MapPosition int         `json:"mapPosition"`
	Attacks     []WarAttack `json:"attacks,omitempty"`
}

func (m WarMember) AttacksUsed() int {
	return len(m.Attacks)
}

func (m WarMember) TotalStars() int {
	sum := 0
	for _, a := range m.Attacks {
		sum += a.Stars
	}
	return sum
}

// MeanDestruction is the average destruction over the member's attacks, 0 without attacks.
func (m WarMember) MeanDestruction() float64 {
	if len(m.Attacks) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range m.Attacks {
		sum += a.DestructionPercentage
	}
	return sum / float64(len(m.Attacks))
}

type WarClan struct {
	Tag                   string      `json:"tag"`
	Name                  string      `json:"name"`
	ClanLevel             int         `json:"clanLevel"`
	Stars                 int         `json:"stars"`
	Attacks               int         `json:"attacks"`
	DestructionPercentage float64     `json:"destructionPercentage"`
	Members               []WarMember `json:"members,omitempty"`
}

type War struct {
	State                string  `json:"state"`
	TeamSize             int     `json:"teamSize"`
	AttacksPerMember     int     `json:"attacksPerMember"`
	PreparationStartTime string  `json:"preparationStartTime,omitempty"`
	StartTime            string  `json:"startTime,omitempty"`
	EndTime              string  `json:"endTime,omitempty"`
	Clan                 WarClan `json:"clan"`
	Opponent             WarClan `json:"opponent"`
}

func (w War) InProgress() bool {
	return w.State == WarStateInWar
}

// AttacksPerMemberOrDefault falls back to 2, the regular war allowance.
func (w War) AttacksPerMemberOrDefault() int {
	if w.AttacksPerMember <= 0 {
		return 2
	}
	return w.AttacksPerMember
}

type WarLogEntry struct {
	Result           string  `json:"result,omitempty"`
	EndTime          string  `json:"endTime"`
	TeamSize         int     `json:"teamSize"`
	AttacksPerMember int     `json:"attacksPerMember"`
	Clan             WarClan `json:"clan"`
	Opponent         WarClan `json:"opponent"`
}

type WarLog struct {
	Items []WarLogEntry `json:"items"`
}

// Latest returns the most recent entry; the upstream lists newest first.
func (l WarLog) Latest() (WarLogEntry, bool) {
	if len(l.Items) == 0 {
		return WarLogEntry{}, false
	}
	return l.Items[0], true
}

type LeagueGroupClan struct {
	Tag       string `json:"tag"`
	Name      string `json:"name"`
	ClanLevel int    `json:"clanLevel"`
}

type LeagueRound struct {
	WarTags []string `json:"warTags"`
}

type LeagueGroup struct {
	State  string            `json:"state"`
	Season string            `json:"season"`
	Clans  []LeagueGroupClan `json:"clans,omitempty"`
	Rounds []LeagueRound     `json:"rounds,omitempty"`
}
