package domain

import (
	"slices"
	"sort"

	"github.com/creasebook/scoring/internal/stats"
	"github.com/google/uuid"
)

// Dismissal records how a batter got out.
type Dismissal struct {
	Kind      WicketKind `json:"kind"`
	BowlerID  uuid.UUID  `json:"bowler_id"`
	FielderID uuid.UUID  `json:"fielder_id,omitempty"`
}

// BattingEntry is one player's innings with the bat.
type BattingEntry struct {
	PlayerID  uuid.UUID  `json:"player_id"`
	Innings   int        `json:"innings"`
	Order     int        `json:"order"`
	Runs      int        `json:"runs"`
	Balls     int        `json:"balls"`
	Fours     int        `json:"fours"`
	Sixes     int        `json:"sixes"`
	NotOut    bool       `json:"not_out"`
	Dismissal *Dismissal `json:"dismissal,omitempty"`
}

// StrikeRate is runs per hundred balls faced.
func (e BattingEntry) StrikeRate() float64 { return stats.StrikeRate(e.Runs, e.Balls) }

// BowlingEntry is one player's bowling figures for an innings.
// Balls counts legal deliveries only.
type BowlingEntry struct {
	PlayerID     uuid.UUID `json:"player_id"`
	Innings      int       `json:"innings"`
	Order        int       `json:"order"`
	Balls        int       `json:"balls"`
	Maidens      int       `json:"maidens"`
	RunsConceded int       `json:"runs_conceded"`
	Wickets      int       `json:"wickets"`
	Wides        int       `json:"wides"`
	NoBalls      int       `json:"no_balls"`
}

// Overs renders the legal balls bowled in over notation.
func (e BowlingEntry) Overs() string { return stats.OversDisplay(e.Balls) }

// Economy is runs conceded per six legal balls.
func (e BowlingEntry) Economy() float64 { return stats.Economy(e.RunsConceded, e.Balls) }

// Ledger holds every batting and bowling entry recorded for a match.
type Ledger struct {
	Batting []BattingEntry `json:"batting"`
	Bowling []BowlingEntry `json:"bowling"`
}

// Batter returns the batting entry for the player in the given innings, or nil.
func (l *Ledger) Batter(innings int, playerID uuid.UUID) *BattingEntry {
	for i := range l.Batting {
		if l.Batting[i].Innings == innings && l.Batting[i].PlayerID == playerID {
			return &l.Batting[i]
		}
	}
	return nil
}

// Bowler returns the bowling entry for the player in the given innings, or nil.
func (l *Ledger) Bowler(innings int, playerID uuid.UUID) *BowlingEntry {
	for i := range l.Bowling {
		if l.Bowling[i].Innings == innings && l.Bowling[i].PlayerID == playerID {
			return &l.Bowling[i]
		}
	}
	return nil
}

// OpenBatter creates the batting entry on first appearance. It reports false if one already exists.
func (l *Ledger) OpenBatter(innings int, playerID uuid.UUID) (*BattingEntry, bool) {
	if e := l.Batter(innings, playerID); e != nil {
		return e, false
	}
	l.Batting = append(l.Batting, BattingEntry{
		PlayerID: playerID,
		Innings:  innings,
		Order:    l.countBatting(innings) + 1,
		NotOut:   true,
	})
	return &l.Batting[len(l.Batting)-1], true
}

// OpenBowler returns the bowling entry, creating it on first appearance.
func (l *Ledger) OpenBowler(innings int, playerID uuid.UUID) (*BowlingEntry, bool) {
	if e := l.Bowler(innings, playerID); e != nil {
		return e, false
	}
	l.Bowling = append(l.Bowling, BowlingEntry{
		PlayerID: playerID,
		Innings:  innings,
		Order:    l.countBowling(innings) + 1,
	})
	return &l.Bowling[len(l.Bowling)-1], true
}

// BattingFor returns the innings' batting entries in batting order.
func (l *Ledger) BattingFor(innings int) []BattingEntry {
	out := make([]BattingEntry, 0)
	for _, e := range l.Batting {
		if e.Innings == innings {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// BowlingFor returns the innings' bowling entries in order of first over.
func (l *Ledger) BowlingFor(innings int) []BowlingEntry {
	out := make([]BowlingEntry, 0)
	for _, e := range l.Bowling {
		if e.Innings == innings {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func (l *Ledger) countBatting(innings int) int {
	n := 0
	for _, e := range l.Batting {
		if e.Innings == innings {
			n++
		}
	}
	return n
}

func (l *Ledger) countBowling(innings int) int {
	n := 0
	for _, e := range l.Bowling {
		if e.Innings == innings {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	c := Ledger{
		Batting: slices.Clone(l.Batting),
		Bowling: slices.Clone(l.Bowling),
	}
	for i, e := range c.Batting {
		if e.Dismissal != nil {
			d := *e.Dismissal
			c.Batting[i].Dismissal = &d
		}
	}
	return c
}
