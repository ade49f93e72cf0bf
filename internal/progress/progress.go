// Package progress renders download progress in the terminal.
package progress

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/oshokin/media-grabber/internal/media"
)

// spinnerType is the progressbar spinner used while the size is unknown.
const spinnerType = 14

// Sink receives progress events. Implementations are safe for concurrent use.
type Sink interface {
	// Item reports single-item progress.
	Item(p media.ItemProgress)
	// Batch reports batch progress.
	Batch(p media.BatchProgress)
	// Finish completes the current bars.
	Finish()
}

// Nop discards every event.
type Nop struct{}

// Item does nothing.
func (Nop) Item(media.ItemProgress) {}

// Batch does nothing.
func (Nop) Batch(media.BatchProgress) {}

// Finish does nothing.
func (Nop) Finish() {}

// Bars draws one byte bar for the current item and one bar for the batch.
type Bars struct {
	mu     sync.Mutex
	writer io.Writer
	item   *progressbar.ProgressBar
	batch  *progressbar.ProgressBar
}

// New returns terminal bars writing to w, or Nop when disabled.
func New(enabled bool, w io.Writer) Sink {
	if !enabled {
		return Nop{}
	}

	return &Bars{writer: w}
}

// Item updates the byte bar, switching from a spinner to a determinate bar once the size is known.
func (b *Bars) Item(p media.ItemProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.item == nil {
		b.item = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(b.writer),
			progressbar.OptionSetDescription("Downloading"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSpinnerType(spinnerType),
			progressbar.OptionClearOnFinish())
	}

	if p.Determinate && b.item.GetMax64() != p.TotalBytes {
		b.item.ChangeMax64(p.TotalBytes)
	}

	_ = b.item.Set64(p.DownloadedBytes)
}

// Batch updates the batch bar with the completed count and status line.
func (b *Bars) Batch(p media.BatchProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.batch == nil {
		b.batch = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(b.writer),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false))
	}

	// A new item starts with a fresh byte bar.
	if b.item != nil {
		_ = b.item.Finish()
		b.item = nil
	}

	b.batch.Describe(p.Status)
	_ = b.batch.Set(p.Completed)
}

// Finish completes both bars.
func (b *Bars) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.item != nil {
		_ = b.item.Finish()
		b.item = nil
	}

	if b.batch != nil {
		_ = b.batch.Finish()
		b.batch = nil
	}
}
