package extractor

//go:generate $MOCKGEN -source=ytdlp.go -destination=mocks/ytdlp_mock.go

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/oshokin/media-grabber/internal/media"
	"github.com/oshokin/media-grabber/internal/utils"
)

const (
	// outputTemplate names downloaded files after their title.
	outputTemplate = "%(title)s.%(ext)s"
	// progressInterval is how often yt-dlp progress is forwarded.
	progressInterval = 500 * time.Millisecond
	// BestFormat selects the best single-file format.
	BestFormat = "best"
	// BestAudioFormat selects the best audio-only stream.
	BestAudioFormat = "bestaudio/best"
	// MergeFormatMP4 is the container used when video and audio are merged.
	MergeFormatMP4 = "mp4"
	// AudioFormatMP3 is the codec audio downloads are converted to.
	AudioFormatMP3 = "mp3"
)

// ExtractOptions tunes metadata extraction.
type ExtractOptions struct {
	// Flat lists playlist entries without resolving each of them.
	Flat bool
	// Limit caps playlist entries; zero means no cap.
	Limit int
}

// DownloadOptions tunes one yt-dlp download.
type DownloadOptions struct {
	// OutputDir receives the file.
	OutputDir string
	// Format is a yt-dlp format selector.
	Format string
	// MergeFormat is the container for merged streams; empty keeps yt-dlp's choice.
	MergeFormat string
	// ExtractAudio converts the result to AudioFormat.
	ExtractAudio bool
	// AudioFormat is the target codec when ExtractAudio is set.
	AudioFormat string
	// AudioQuality is the target bitrate such as "192K".
	AudioQuality string
	// Progress receives download progress; may be nil.
	Progress media.ProgressFunc
}

// Downloaded describes a file produced by yt-dlp.
type Downloaded struct {
	FilePath string
	Title    string
}

// YTDLP is the yt-dlp capability used by every backend.
type YTDLP interface {
	// Extract returns the info dictionary of url without downloading.
	Extract(ctx context.Context, url string, opts ExtractOptions) (*Info, error)
	// Download fetches url into opts.OutputDir.
	Download(ctx context.Context, url string, opts DownloadOptions) (*Downloaded, error)
}

// GoYTDLP implements YTDLP with github.com/lrstanley/go-ytdlp.
type GoYTDLP struct {
	executable string
}

// NewGoYTDLP creates a yt-dlp wrapper. An empty executable uses yt-dlp from PATH.
func NewGoYTDLP(executable string) *GoYTDLP {
	return &GoYTDLP{executable: executable}
}

// Extract runs yt-dlp with --dump-single-json.
func (y *GoYTDLP) Extract(ctx context.Context, url string, opts ExtractOptions) (*Info, error) {
	cmd := y.command().DumpSingleJSON().SkipDownload()

	if opts.Flat {
		cmd.FlatPlaylist()
	}

	if opts.Limit > 0 {
		cmd.PlaylistItems(fmt.Sprintf("1:%d", opts.Limit))
	}

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %w", ErrToolFailed, err)
	}

	return ParseInfo([]byte(result.Stdout))
}

// Download runs yt-dlp for one url.
func (y *GoYTDLP) Download(ctx context.Context, url string, opts DownloadOptions) (*Downloaded, error) {
	cmd := y.command().
		ForceOverwrites().
		RestrictFilenames().
		Output(filepath.Join(opts.OutputDir, outputTemplate))

	if opts.Format != "" {
		cmd.Format(opts.Format)
	}

	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}

	if opts.ExtractAudio {
		cmd.ExtractAudio().AudioFormat(opts.AudioFormat)

		if opts.AudioQuality != "" {
			cmd.AudioQuality(opts.AudioQuality)
		}
	}

	if opts.Progress != nil {
		cmd.ProgressFunc(progressInterval, func(update ytdlp.ProgressUpdate) {
			opts.Progress(media.NewItemProgress(int64(update.DownloadedBytes), int64(update.TotalBytes)))
		})
	}

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: yt-dlp: %w", ErrToolFailed, err)
	}

	downloaded := &Downloaded{}

	info, err := result.GetExtractedInfo()
	if err == nil && len(info) > 0 {
		if info[0].Filename != nil {
			downloaded.FilePath = *info[0].Filename
		}

		if info[0].Title != nil {
			downloaded.Title = *info[0].Title
		}
	}

	if downloaded.FilePath == "" {
		return nil, fmt.Errorf("%w: yt-dlp reported no filename for %s", ErrOutputMissing, url)
	}

	// The reported name is the pre-conversion one.
	if opts.ExtractAudio && opts.AudioFormat != "" {
		downloaded.FilePath = utils.SetFileExtension(downloaded.FilePath, opts.AudioFormat, true)
	}

	return downloaded, nil
}

func (y *GoYTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if y.executable != "" {
		cmd.SetExecutable(y.executable)
	}

	return cmd
}

// VideoFormat selects the best merged streams not taller than height, falling back to
// a single file of that height.
func VideoFormat(height int) string {
	return fmt.Sprintf("bv*[height<=%d]+ba/b[height<=%d]", height, height)
}

// SingleFileVideoFormat selects the best single file not taller than height.
func SingleFileVideoFormat(height int) string {
	return fmt.Sprintf("best[height<=%d]", height)
}

// AudioQuality converts a bitrate into yt-dlp's --audio-quality value.
func AudioQuality(bitrate int) string {
	return fmt.Sprintf("%dK", bitrate)
}

// FormatByID selects a catalog format and adds the best audio to video-only entries.
func FormatByID(formatID string, kind media.Kind) string {
	formatID = strings.TrimSpace(formatID)
	if kind == media.KindAudio {
		return formatID
	}

	return formatID + "+ba/" + formatID
}
