package constants

import "os"

const (
	// DefaultFilePermissions sets the default permissions for regular files: (rw-r--r--).
	DefaultFilePermissions os.FileMode = 0o644

	// DefaultFolderPermissions sets the default permissions for regular folders: (rwxr-xr-x).
	DefaultFolderPermissions os.FileMode = 0o755
)

// File extension constants.
const (
	ExtensionMP3  = ".mp3"
	ExtensionMP4  = ".mp4"
	ExtensionJPG  = ".jpg"
	ExtensionText = ".txt"
)

// TrimmedSuffix is appended to the base name of a file cut to a trim window.
const TrimmedSuffix = "_trimmed"
