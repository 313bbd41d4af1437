package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newMatchDraft(matchID uuid.UUID, evtType OutboxEventType, payload any) OutboxDraft {
	raw, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   matchID.String(),
		EventType:     evtType,
		PartitionKey:  matchID.String(),
		Headers:       json.RawMessage(`{}`),
		Payload:       raw,
		OccurredAt:    time.Now(),
	}
}

// NewMatchScheduledEvent announces a newly scheduled fixture.
func NewMatchScheduledEvent(s *MatchState) OutboxDraft {
	return newMatchDraft(s.MatchID, OutboxMatchScheduled, map[string]any{
		"match_id":     s.MatchID,
		"home_team_id": s.HomeTeamID,
		"away_team_id": s.AwayTeamID,
		"venue":        s.Venue,
		"starts_at":    s.StartsAt,
	})
}

// NewMatchLiveEvent announces the toss and the first batting side.
func NewMatchLiveEvent(s *MatchState) OutboxDraft {
	return newMatchDraft(s.MatchID, OutboxMatchLive, map[string]any{
		"match_id":        s.MatchID,
		"toss":            s.Toss,
		"batting_team_id": s.BattingTeamID,
	})
}

// NewDeliveryAppliedEvent carries one applied scoring event and the score after it.
func NewDeliveryAppliedEvent(d Delivery, s *MatchState) OutboxDraft {
	return newMatchDraft(d.MatchID, OutboxDeliveryApplied, map[string]any{
		"delivery": d,
		"runs":     s.Runs,
		"wickets":  s.Wickets,
		"over":     s.OverDisplay(),
		"innings":  s.Innings,
	})
}

// NewInningsCompletedEvent is emitted when innings one closes.
func NewInningsCompletedEvent(matchID uuid.UUID, summary InningsSummary) OutboxDraft {
	return newMatchDraft(matchID, OutboxInningsCompleted, summary)
}

// NewMatchCompletedEvent is emitted once a result is recorded.
func NewMatchCompletedEvent(s *MatchState) OutboxDraft {
	return newMatchDraft(s.MatchID, OutboxMatchCompleted, map[string]any{
		"match_id":        s.MatchID,
		"result":          s.Result,
		"man_of_match_id": s.ManOfMatchID,
	})
}

// NewMatchResetEvent is emitted when an operator purges a match back to UPCOMING.
func NewMatchResetEvent(matchID uuid.UUID) OutboxDraft {
	return newMatchDraft(matchID, OutboxMatchReset, map[string]string{
		"match_id": matchID.String(),
	})
}
