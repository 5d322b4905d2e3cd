package models

// DefaultLastSeen ranks members with no recorded activity as least recently seen.
const DefaultLastSeen = "2000-01-01T00:00:00.000Z"

type League struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ClanMember struct {
	Tag               string  `json:"tag"`
	Name              string  `json:"name"`
	Role              string  `json:"role,omitempty"`
	ExpLevel          int     `json:"expLevel"`
	Trophies          int     `json:"trophies"`
	Donations         int     `json:"donations"`
	DonationsReceived int     `json:"donationsReceived"`
	League            *League `json:"league,omitempty"`
	LastSeen          *string `json:"lastSeen,omitempty"`
}

// LastSeenOrDefault returns the ISO-8601 last activity timestamp.
func (m ClanMember) LastSeenOrDefault() string {
	if m.LastSeen == nil || *m.LastSeen == "" {
		return DefaultLastSeen
	}
	return *m.LastSeen
}

type Clan struct {
	Tag            string       `json:"tag"`
	Name           string       `json:"name"`
	ClanLevel      int          `json:"clanLevel"`
	Members        int          `json:"members"`
	WarWins        int          `json:"warWins"`
	IsWarLogPublic bool         `json:"isWarLogPublic"`
	WarLeague      *League      `json:"warLeague,omitempty"`
	MemberList     []ClanMember `json:"memberList"`
}
