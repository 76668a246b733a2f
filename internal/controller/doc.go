// Package controller orchestrates one episode from job submission to gated
// playback. It composes the generation watcher, the media prefetch buffer,
// and the playback session into a single phase machine:
//
//	polling -> buffering -> ready
//	polling -> error
//
// Buffering never fails the episode; broken or slow media degrades the
// affected scene instead. The error phase is terminal for a job attempt, and
// a controller serves exactly one job, so recovery and replay both mean
// constructing a fresh controller.
package controller
