package models

// Raw cuptree documents as produced by the fetch stage. One file holds the
// cup trees of a single (tournament, season) pair, as served by the
// SofaScore API. Field sets follow the upstream JSON; anything we do not
// consume downstream is left out.

// Bracket is one tournament-season elimination tree.
type Bracket struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Tournament Tournament `json:"tournament"`
	Rounds     []Round    `json:"rounds"`
}

type Tournament struct {
	Name             string           `json:"name"`
	UniqueTournament UniqueTournament `json:"uniqueTournament"`
}

type UniqueTournament struct {
	Name string `json:"name"`
}

// Round groups the blocks played at one stage of the tree. Description is
// free text ("Quarterfinal", "1/8", "Qualification round 1", ...); the
// source gives no enum guarantee.
type Round struct {
	Description string  `json:"description"`
	Blocks      []Block `json:"blocks"`
}

// Block is one match inside a round. Result may be a score string ("3:1"),
// a status string ("retired", "walkover", "on-going", "home won",
// "away won") or malformed.
type Block struct {
	ID                       int64         `json:"id"`
	Finished                 bool          `json:"finished"`
	Result                   string        `json:"result"`
	HomeTeamScore            string        `json:"homeTeamScore"`
	AwayTeamScore            string        `json:"awayTeamScore"`
	Participants             []Participant `json:"participants"`
	SeriesStartDateTimestamp int64         `json:"seriesStartDateTimestamp"`
	Events                   []int64       `json:"events"`
}

type Participant struct {
	Team     Team   `json:"team"`
	Winner   bool   `json:"winner"`
	Order    int    `json:"order"`
	TeamSeed string `json:"teamSeed"`
}

// Team is the player record nested inside a participant. Tennis cup trees
// reuse the team shape, so a "team" here is a single player.
type Team struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ShortName string `json:"shortName"`
	Gender    string `json:"gender"`
	NameCode  string `json:"nameCode"`
	Ranking   int    `json:"ranking"`
	Disabled  bool   `json:"disabled"`
	National  bool   `json:"national"`
}
