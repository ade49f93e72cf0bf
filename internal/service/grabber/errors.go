package grabber

import (
	"errors"

	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/task"
)

// Common errors for the service layer.
var (
	// ErrDownloadFailed wraps the consolidated message of a failure-shaped download result.
	ErrDownloadFailed = errors.New("download failed")
	// ErrNotMP3 indicates a tagging request for a file that is not an mp3.
	ErrNotMP3 = errors.New("only mp3 files can be tagged")
	// ErrEmptyFilePath indicates that the file path is empty.
	ErrEmptyFilePath = errors.New("file path cannot be empty")
)

// ErrorContext provides context information for download errors.
type ErrorContext struct {
	// Category is the type of item that failed.
	Category DownloadCategory
	// Platform is the source of the item.
	Platform media.Platform
	// ItemTitle is the human-readable title of the item.
	ItemTitle string
	// ItemURL is the URL of the failed item.
	ItemURL string
	// Phase indicates when the error occurred (e.g., "fetching metadata", "downloading").
	Phase string
	// ParentTitle is the title of the collection a batch item belongs to.
	ParentTitle string
	// ParentURL is the URL of the collection a batch item belongs to.
	ParentURL string
}

// recordError records an error in the statistics with proper context.
// Cancellation is ignored: it is expected when the user presses CTRL+C.
func (s *ServiceImpl) recordError(errCtx *ErrorContext, err error) {
	if errCtx == nil || err == nil {
		return
	}

	if task.IsCancelled(err) {
		return
	}

	s.recordErrorMessage(errCtx, err.Error())
}

// recordErrorMessage records a failure known only by its message, such as a failed batch item.
func (s *ServiceImpl) recordErrorMessage(errCtx *ErrorContext, message string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.Errors = append(s.stats.Errors, DownloadError{
		Category:     errCtx.Category,
		Platform:     errCtx.Platform,
		ItemTitle:    errCtx.ItemTitle,
		ItemURL:      errCtx.ItemURL,
		ErrorMessage: message,
		Phase:        errCtx.Phase,
		ParentTitle:  errCtx.ParentTitle,
		ParentURL:    errCtx.ParentURL,
	})
}
