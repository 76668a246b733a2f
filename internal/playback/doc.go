// Package playback enforces scene-by-scene progression for a viewing
// session: narrative scenes unlock when their video finishes, interactive
// scenes when the most recent quiz submission is correct. Unlocks are sticky
// for the life of the session.
package playback
