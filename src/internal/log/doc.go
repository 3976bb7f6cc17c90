// Package log provides simple leveled logging for hostconf.
//
// Messages are written with a colored level prefix: DEBUG (only in verbose mode),
// INFO, WARN and ERROR. Long-running subsystems (the apply pipeline, the API server,
// the process runner) log through a component logger obtained from Prefixed, so that
// interleaved output from concurrent apply cycles stays attributable:
//
//	logger := log.Prefixed("apply")
//	logger.Infof("cycle %s committed %s", id, kind)
//
// Global helpers are available for everything else:
//
//	log.Infof("Loading settings from %s", path)
//	log.SetVerbose(true)
//	log.Debugf("Resolved unit: %s", unit)
//
// Output goes to stdout, except ERROR which always goes to stderr. SetForceStdErr
// sends everything to stderr, which CLI commands that print generated documents to
// stdout rely on.
package log
