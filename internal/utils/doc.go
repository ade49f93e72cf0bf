// Package utils holds small helpers shared across the grabber: filename sanitizing for media titles,
// URL list files, directory snapshots used to find files produced by external tools, and
// generic slice helpers.
package utils
