package model

// NearCompleteThreshold is the remaining count at or below which a card is
// flagged as close to winning
const NearCompleteThreshold = 3

// CardStat is the derived play state of one card
type CardStat struct {
	CardNumber int
	Remaining  int
	IsComplete bool
}

// StatsSnapshot is the ranked view of all non-excluded cards. It is derived
// on demand and never stored.
type StatsSnapshot struct {
	Cards        []CardStat // Ascending by Remaining
	Winners      []int
	NearComplete []int
	TotalCards   int // Cards considered after exclusions
}
