package contract

import "errors"

var (
	ErrReasoningService = errors.New("reasoning service call failed")
	ErrPersonaSynthesis = errors.New("persona synthesis produced an invalid profile")
	ErrProvisioning     = errors.New("agent provisioning failed")
	ErrTurnExecution    = errors.New("turn execution failed")
	ErrTurnTimeout      = errors.New("turn polling exceeded deadline")
	ErrEmptyReply       = errors.New("completed turn has no reply text")
	ErrValidation       = errors.New("validation failed")
)
