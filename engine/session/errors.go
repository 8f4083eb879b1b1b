package session

import (
	"errors"

	contractx "github.com/chayanin/Summit-Goal-Coaching/engine/contract"
	storex "github.com/chayanin/Summit-Goal-Coaching/engine/store"
)

// UserMessage maps an engine error to the human-readable message shown at
// the boundary. Internal detail stays in logs; callers never see a
// reasoning-service stack trace.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, storex.ErrDuplicateCoach):
		return "A coach has already been created for this goal."
	case errors.Is(err, storex.ErrCoachNotFound):
		return "This coach could not be found."
	case errors.Is(err, contractx.ErrPersonaSynthesis):
		return "We couldn't build a coach profile from your goal. Please try again."
	case errors.Is(err, contractx.ErrProvisioning):
		return "We couldn't set up your coach. Please try again."
	case errors.Is(err, contractx.ErrTurnTimeout):
		return "Your coach is taking too long to respond. Please try again."
	case errors.Is(err, contractx.ErrTurnExecution), errors.Is(err, contractx.ErrEmptyReply):
		return "Your coach couldn't respond to that message. Please try again."
	case errors.Is(err, contractx.ErrReasoningService):
		return "The coaching service is unavailable right now. Please try again shortly."
	case errors.Is(err, storex.ErrStorage):
		return "Something went wrong saving your conversation. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
