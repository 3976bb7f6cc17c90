// Package writer persists generated documents next to the daemon's live
// configuration files.
//
// A document is first staged into a temporary file in the same directory as its
// live path, so that committing is a single rename on one filesystem. Commit keeps
// the previous live file as a timestamped backup ("<live>.<UTC time>.bak") and
// prunes older backups down to the configured retention. Discard removes staged
// files and never touches live ones.
package writer
