// Package library persists the viewer's episode history: every generation
// job ever requested, its inputs, and its terminal outcome. Store failures
// are deliberately non-fatal to playback; callers log and continue.
package library
