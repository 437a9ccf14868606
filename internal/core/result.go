package core

import "fmt"

// Outcome classifies how a playback request ended.
type Outcome int

const (
	// OutcomePlaying means a play command was issued.
	OutcomePlaying Outcome = iota
	// OutcomeNoMatch means no candidate qualified for the query.
	OutcomeNoMatch
	// OutcomeNoDevice means no playback device was found, after the
	// one permitted recovery attempt.
	OutcomeNoDevice
	// OutcomeLaunchFailed means the desktop client could not be started.
	OutcomeLaunchFailed
	// OutcomeTransportError means an underlying vendor call failed.
	OutcomeTransportError
)

// PlayResult is the tagged result of a search-and-play invocation. The
// host decides how to present Message; OK is the success bit callers
// branch on.
type PlayResult struct {
	Outcome Outcome
	Message string
	Track   *Track
	Device  *Device
}

// OK reports whether playback was initiated.
func (r PlayResult) OK() bool {
	return r.Outcome == OutcomePlaying
}

func Playing(track *Track, device *Device, message string) PlayResult {
	return PlayResult{Outcome: OutcomePlaying, Message: message, Track: track, Device: device}
}

func NoMatch(query string) PlayResult {
	return PlayResult{
		Outcome: OutcomeNoMatch,
		Message: fmt.Sprintf("No track found matching %q.", query),
	}
}

func NoDevice(message string) PlayResult {
	return PlayResult{Outcome: OutcomeNoDevice, Message: message}
}

func LaunchFailed(err error) PlayResult {
	return PlayResult{
		Outcome: OutcomeLaunchFailed,
		Message: fmt.Sprintf("Failed to launch the desktop client: %v", err),
	}
}

func TransportError(op string, err error) PlayResult {
	return PlayResult{
		Outcome: OutcomeTransportError,
		Message: fmt.Sprintf("%s failed: %v", op, err),
	}
}
