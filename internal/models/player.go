package models

const WarPreferenceIn = "in"

type Hero struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
	Village  string `json:"village,omitempty"`
}

type Equipment struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	MaxLevel int    `json:"maxLevel"`
}

type PlayerClan struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}

type Player struct {
	Tag           string      `json:"tag"`
	Name          string      `json:"name"`
	ExpLevel      int         `json:"expLevel"`
	Trophies      int         `json:"trophies"`
	BestTrophies  int         `json:"bestTrophies"`
	WarStars      int         `json:"warStars"`
	WarPreference string      `json:"warPreference,omitempty"`
	Donations     int         `json:"donations"`
	Clan          *PlayerClan `json:"clan,omitempty"`
	League        *League     `json:"league,omitempty"`
	Heroes        []Hero      `json:"heroes,omitempty"`
	HeroEquipment []Equipment `json:"heroEquipment,omitempty"`
}

func (p Player) HeroLevelSum() int {
	sum := 0
	for _, h := range p.Heroes {
		sum += h.Level
	}
	return sum
}

func (p Player) EquipmentLevelSum() int {
	sum := 0
	for _, e := range p.HeroEquipment {
		sum += e.Level
	}
	return sum
}

func (p Player) LeagueID() int {
	if p.League == nil {
		return 0
	}
	return p.League.ID
}
