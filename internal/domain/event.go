package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the scoring actions a scorer can submit.
type EventType string

const (
	EventAddRuns         EventType = "add_runs"
	EventAddExtra        EventType = "add_extra"
	EventAddWicket       EventType = "add_wicket"
	EventCompleteOver    EventType = "complete_over"
	EventSetNextBatsman  EventType = "set_next_batsman"
	EventSetNextBowler   EventType = "set_next_bowler"
	EventCompleteInnings EventType = "complete_innings"
	EventCompleteMatch   EventType = "complete_match"
	EventSetManOfMatch   EventType = "set_man_of_match"
)

// ExtraKind is an illegal delivery that still scores a run.
type ExtraKind string

const (
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no_ball"
)

// WicketKind is the mode of dismissal.
type WicketKind string

const (
	WicketBowled    WicketKind = "bowled"
	WicketCaught    WicketKind = "caught"
	WicketLBW       WicketKind = "lbw"
	WicketRunOut    WicketKind = "run_out"
	WicketStumped   WicketKind = "stumped"
	WicketHitWicket WicketKind = "hit_wicket"
)

var wicketKinds = map[WicketKind]bool{
	WicketBowled: true, WicketCaught: true, WicketLBW: true,
	WicketRunOut: true, WicketStumped: true, WicketHitWicket: true,
}

// Event is one scorer-submitted action. Only the fields relevant to Type are read.
type Event struct {
	Type      EventType  `json:"type"`
	Runs      int        `json:"runs,omitempty"`
	Extra     ExtraKind  `json:"extra,omitempty"`
	Wicket    WicketKind `json:"wicket,omitempty"`
	Dismissed Slot       `json:"dismissed,omitempty"`
	FielderID uuid.UUID  `json:"fielder_id,omitempty"`
	PlayerID  uuid.UUID  `json:"player_id,omitempty"`
	Slot      Slot       `json:"slot,omitempty"`
}

func AddRuns(n int) Event { return Event{Type: EventAddRuns, Runs: n} }

func AddExtra(kind ExtraKind) Event { return Event{Type: EventAddExtra, Extra: kind} }

func AddWicket(kind WicketKind, dismissed Slot, fielder uuid.UUID) Event {
	return Event{Type: EventAddWicket, Wicket: kind, Dismissed: dismissed, FielderID: fielder}
}

func CompleteOver() Event { return Event{Type: EventCompleteOver} }

// SetNextBatsman fills the first vacant batting slot, striker first.
func SetNextBatsman(playerID uuid.UUID) Event {
	return Event{Type: EventSetNextBatsman, PlayerID: playerID}
}

// SetNextBatsmanAt fills an explicit batting slot.
func SetNextBatsmanAt(playerID uuid.UUID, slot Slot) Event {
	return Event{Type: EventSetNextBatsman, PlayerID: playerID, Slot: slot}
}

func SetNextBowler(playerID uuid.UUID) Event {
	return Event{Type: EventSetNextBowler, PlayerID: playerID}
}

func CompleteInnings() Event { return Event{Type: EventCompleteInnings} }

func CompleteMatch() Event { return Event{Type: EventCompleteMatch} }

func SetManOfMatch(playerID uuid.UUID) Event {
	return Event{Type: EventSetManOfMatch, PlayerID: playerID}
}

// Validate checks the event payload shape. It does not look at match state.
func (e Event) Validate() error {
	switch e.Type {
	case EventAddRuns:
		if e.Runs < 0 || e.Runs > 6 {
			return ErrValidation(fmt.Sprintf("runs must be between 0 and 6, got %d", e.Runs))
		}
	case EventAddExtra:
		if e.Extra != ExtraWide && e.Extra != ExtraNoBall {
			return ErrValidation(fmt.Sprintf("invalid extra kind %q", e.Extra))
		}
	case EventAddWicket:
		if !wicketKinds[e.Wicket] {
			return ErrValidation(fmt.Sprintf("invalid wicket kind %q", e.Wicket))
		}
		if e.Dismissed != SlotStriker && e.Dismissed != SlotNonStriker {
			return ErrValidation(fmt.Sprintf("dismissed must be striker or non_striker, got %q", e.Dismissed))
		}
	case EventSetNextBatsman:
		if e.PlayerID == uuid.Nil {
			return ErrValidation("player_id is required")
		}
		if e.Slot != "" && e.Slot != SlotStriker && e.Slot != SlotNonStriker {
			return ErrValidation(fmt.Sprintf("invalid batting slot %q", e.Slot))
		}
	case EventSetNextBowler, EventSetManOfMatch:
		if e.PlayerID == uuid.Nil {
			return ErrValidation("player_id is required")
		}
	case EventCompleteOver, EventCompleteInnings, EventCompleteMatch:
	default:
		return ErrValidation(fmt.Sprintf("unknown event type %q", e.Type))
	}
	return nil
}

// Delivery is an applied event in a match's append-only event log.
type Delivery struct {
	MatchID   uuid.UUID `json:"match_id"`
	Seq       int64     `json:"seq"`
	Innings   int       `json:"innings"`
	Over      string    `json:"over"`
	Event     Event     `json:"event"`
	AppliedAt time.Time `json:"applied_at"`
}
