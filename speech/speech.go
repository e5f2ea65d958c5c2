// Package speech defines the voice capability seam. The engine is injected
// into whatever owns the active session and is never ambient state; hosts
// without voice support plug in Null.
package speech

import "errors"

// ErrUnsupported is returned when the host has no recognition facility.
var ErrUnsupported = errors.New("speech recognition not supported")

// Engine is a host-provided voice capability. Speak and StartListening
// report completion through callbacks so the caller never blocks on audio.
type Engine interface {
	// Speak voices text, calling done (if non-nil) when playback finishes.
	// Starting a new utterance interrupts the previous one.
	Speak(text string, done func())
	// StopSpeaking interrupts the current utterance, if any.
	StopSpeaking()
	// Speaking reports whether an utterance is in progress.
	Speaking() bool

	// StartListening begins a single recognition attempt. Exactly one of
	// onResult or onError fires, followed by onEnd.
	StartListening(onResult func(transcript string), onError func(err error), onEnd func()) error
	// StopListening aborts an in-progress recognition attempt.
	StopListening()
}

// Null is the Engine for hosts without voice support: speaking completes
// immediately and listening is rejected.
type Null struct{}

func (Null) Speak(_ string, done func()) {
	if done != nil {
		done()
	}
}

func (Null) StopSpeaking() {}

func (Null) Speaking() bool { return false }

func (Null) StartListening(_ func(string), _ func(error), _ func()) error {
	return ErrUnsupported
}

func (Null) StopListening() {}
