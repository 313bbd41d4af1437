package scoring

import (
	"github.com/creasebook/scoring/internal/domain"
	"github.com/creasebook/scoring/internal/innings"
	"github.com/creasebook/scoring/internal/roster"
	"github.com/google/uuid"
)

// completeOver closes an over of six legal balls. The bowler is stood down
// and may not bowl the next over. Once the innings has ended no batter can
// come in, so only the bowler is required.
func (p *Processor) completeOver(w *domain.Aggregate, _ roster.Squads, _ domain.Event) (OutcomeCode, error) {
	s := &w.State
	if ended, _ := innings.Ended(s); ended {
		if s.BowlerID == uuid.Nil {
			return "", domain.ErrMissingParticipant(domain.SlotBowler)
		}
	} else if err := requireParticipants(s); err != nil {
		return "", err
	}
	if s.Balls != domain.BallsPerOver {
		return "", domain.ErrIllegalTransition("over has %d of %d legal balls", s.Balls, domain.BallsPerOver)
	}

	bowl := currentBowler(w)
	if s.CurrentOver().Runs == 0 {
		bowl.Maidens++
	}
	if rem := bowl.Balls % domain.BallsPerOver; rem != 0 {
		bowl.Balls += domain.BallsPerOver - rem
	}

	s.ThisOver = []domain.Ball{}
	s.RotateStrike()
	s.Balls = 0
	s.Overs++
	s.PreviousBowlerID = s.BowlerID
	s.BowlerID = uuid.Nil
	return OutcomeOverCompleted, nil
}
