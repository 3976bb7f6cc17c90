// Package utils provides small filesystem helpers shared across hostconf.
//
// Path utilities resolve settings-relative paths; file utilities close and
// remove files while logging, not returning, failures on cleanup paths.
package utils
