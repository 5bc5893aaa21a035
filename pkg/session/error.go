package session

import "errors"

// ErrNoSpeaker indicates a transcript turn arrived without a speaker label.
var ErrNoSpeaker = errors.New("transcript turn requires a speaker")
