// Package app provides the main application logic behind the commands.
// It builds the backend registry, the download history, the thumbnail fetcher and
// the progress bars from the configuration, and runs the grabber service on a
// dispatcher loop until its work is done or the user interrupts it.
package app
