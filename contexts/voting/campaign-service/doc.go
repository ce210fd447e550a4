// Package campaignservice owns the promotion/demotion campaign lifecycle
// inside the voting context: manual nominations, automatic campaigns opened
// by the attendance trigger, time-window activation, administrative
// close/cancel, and buffered retries of failed automatic campaigns.
package campaignservice
