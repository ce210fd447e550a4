package errors

import "errors"

var (
	ErrInvalidCampaignInput   = errors.New("invalid campaign input")
	ErrInvalidWindow          = errors.New("campaign end time must be after start time")
	ErrInvalidThreshold       = errors.New("pass threshold must be between 0 and 100")
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrCampaignNotEnded       = errors.New("campaign voting window has not ended")
	ErrCampaignNotActive      = errors.New("campaign is not active")
	ErrInvalidStateTransition = errors.New("invalid campaign state transition")
	ErrRetryNotAllowed        = errors.New("campaign is not eligible for a retry")
	ErrRetryLimitExceeded     = errors.New("punishment retry limit exceeded")
	ErrConflict               = errors.New("campaign conflict")
)
