// Package history persists completed downloads in a small sqlite database.
package history
