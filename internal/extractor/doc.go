// Package extractor wraps the external tools that talk to media sites: yt-dlp through
// go-ytdlp, the pure-Go YouTube playlist lister, gallery-dl, you-get, ffmpeg, and the
// YouTube oEmbed endpoint. Backends compose these into primary/fallback chains.
package extractor
