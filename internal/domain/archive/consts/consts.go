// Package consts contains constants for the archive domain
package consts

import "regexp"

// StagingDirName is the directory under the archive root where export
// volumes are staged. Subscribers must never be renamed to it.
const StagingDirName = "zips"

// VolumeExt is the extension of one export volume before its sequence
// suffix, e.g. chat.tar.gz.001
const VolumeExt = "tar.gz"

// DefaultVolumeSize is the default export volume cap in bytes (~1.4 GB),
// chosen to stay under common transport upload limits.
const DefaultVolumeSize int64 = 1400 * 1024 * 1024

var volumeNamePattern = regexp.MustCompile(`\.tar\.gz\.\d{3}$`)

// IsVolumeName reports whether a file name matches the export volume
// naming scheme. Used to refuse re-ingesting our own uploaded volumes.
func IsVolumeName(name string) bool {
	return volumeNamePattern.MatchString(name)
}
