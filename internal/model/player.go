package model

import "time"

// PlayerProfile is the canonical player record. Text fields hold a value or NotAvailable;
// the three documents hold a decoded companion payload or an empty object.
type PlayerProfile struct {
	PlayerID           string `json:"playerId"`
	PlayerName         string `json:"playerName"`
	ShirtNumber        string `json:"shirtNumber"`
	ContractExpiry     string `json:"contractExpiry"`
	Birthplace         string `json:"birthplace"`
	Agent              string `json:"agent"`
	Height             string `json:"height"`
	MarketValueHistory any    `json:"marketValueHistory"`
	TransferHistory    any    `json:"transferHistory"`
	PerformanceData    any    `json:"performanceData"`
	Reason             string `json:"reason,omitempty"`
}

// EmptyPlayerProfile is returned when the profile page itself could not be read.
func EmptyPlayerProfile(playerID, reason string) PlayerProfile {
	return PlayerProfile{
		PlayerID:           playerID,
		PlayerName:         NotAvailable,
		ShirtNumber:        NotAvailable,
		ContractExpiry:     NotAvailable,
		Birthplace:         NotAvailable,
		Agent:              NotAvailable,
		Height:             NotAvailable,
		MarketValueHistory: EmptyDocument(),
		TransferHistory:    EmptyDocument(),
		PerformanceData:    EmptyDocument(),
		Reason:             reason,
	}
}

func (p PlayerProfile) IsEmpty() bool {
	return p.PlayerName == NotAvailable && p.ContractExpiry == NotAvailable &&
		p.Birthplace == NotAvailable && p.Agent == NotAvailable && p.Height == NotAvailable
}

// EmptyDocument is the stand-in for a companion payload that could not be fetched.
func EmptyDocument() map[string]any {
	return map[string]any{}
}

// FixtureRef is a transient pointer to one fixture of a team's schedule.
type FixtureRef struct {
	MatchID   string
	Finished  bool
	Cancelled bool
	Kickoff   time.Time
}

// Completed reports whether the fixture was played to the end.
func (f FixtureRef) Completed() bool {
	return f.Finished && !f.Cancelled
}
