package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/media-grabber/internal/constants"
	"github.com/oshokin/media-grabber/internal/logger"
	"github.com/oshokin/media-grabber/internal/utils"
)

// Config holds all configuration settings.
type Config struct {
	// OutputPath is the directory where downloaded files are saved.
	OutputPath string `mapstructure:"output_path"`
	// DefaultVideoQuality is the video quality label used when none is requested (e.g. "720p").
	DefaultVideoQuality string `mapstructure:"default_video_quality"`
	// DefaultAudioQuality is the audio quality label used when none is requested (e.g. "192kbps").
	DefaultAudioQuality string `mapstructure:"default_audio_quality"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// HistoryPath is the sqlite database file holding the download history.
	HistoryPath string `mapstructure:"history_path"`
	// HistoryLimit is the maximum number of history entries kept.
	HistoryLimit int64 `mapstructure:"history_limit"`
	// BatchLimit caps the number of items listed for posts, stories and playlists.
	BatchLimit int64 `mapstructure:"batch_limit"`
	// BatchItemInterval is the minimum pause between two batch items (e.g. "500ms").
	BatchItemInterval string `mapstructure:"batch_item_interval"`
	// MetadataCacheTTL is how long fetched metadata stays cached (e.g. "10m").
	MetadataCacheTTL string `mapstructure:"metadata_cache_ttl"`
	// ThumbnailTimeout bounds a single thumbnail request (e.g. "15s").
	ThumbnailTimeout string `mapstructure:"thumbnail_timeout"`
	// MaxThumbnailSize is the largest thumbnail body accepted (e.g. "5MB").
	MaxThumbnailSize string `mapstructure:"max_thumbnail_size"`
	// EmbedMetadata enables ID3 tags and cover art for downloaded mp3 files.
	EmbedMetadata bool `mapstructure:"embed_metadata"`
	// UseBackendBatch delegates playlist downloads to the backend's own batch capability.
	UseBackendBatch bool `mapstructure:"use_backend_batch"`
	// YTDLPPath is the yt-dlp executable.
	YTDLPPath string `mapstructure:"yt_dlp_path"`
	// GalleryDLPath is the gallery-dl executable.
	GalleryDLPath string `mapstructure:"gallery_dl_path"`
	// YouGetPath is the you-get executable.
	YouGetPath string `mapstructure:"you_get_path"`
	// FFmpegPath is the ffmpeg executable.
	FFmpegPath string `mapstructure:"ffmpeg_path"`
	// Theme is kept for settings files shared with the desktop build.
	Theme string `mapstructure:"theme"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedBatchItemInterval is the parsed pause between batch items.
	ParsedBatchItemInterval time.Duration
	// ParsedMetadataCacheTTL is the parsed metadata cache lifetime.
	ParsedMetadataCacheTTL time.Duration
	// ParsedThumbnailTimeout is the parsed thumbnail request timeout.
	ParsedThumbnailTimeout time.Duration
	// ParsedMaxThumbnailSize is the parsed maximum thumbnail size in bytes.
	ParsedMaxThumbnailSize int64
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".media-grabber.yaml"

	// DefaultHistoryFilename is the default sqlite file for the download history.
	DefaultHistoryFilename = "media-grabber-history.db"

	// DefaultVideoQuality is used when the configuration does not name one.
	DefaultVideoQuality = "720p"

	// DefaultAudioQuality is used when the configuration does not name one.
	DefaultAudioQuality = "192kbps"

	// DefaultHistoryLimit is the number of history entries kept by default.
	DefaultHistoryLimit = 100

	// DefaultBatchLimit is the number of items listed for a profile or playlist by default.
	DefaultBatchLimit = 20

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// defaultThumbnailTimeout is used when thumbnail_timeout is empty.
	defaultThumbnailTimeout = 15 * time.Second

	// defaultMetadataCacheTTL is used when metadata_cache_ttl is empty.
	defaultMetadataCacheTTL = 10 * time.Minute

	// defaultMaxThumbnailSize is used when max_thumbnail_size is empty.
	defaultMaxThumbnailSize = 5 * 1024 * 1024
)

// Static error definitions for better error handling.
var (
	// ErrInvalidVideoQuality indicates that the default video quality is not a "<height>p" label.
	ErrInvalidVideoQuality = errors.New("invalid default_video_quality")
	// ErrInvalidAudioQuality indicates that the default audio quality is not a "<bitrate>kbps" label.
	ErrInvalidAudioQuality = errors.New("invalid default_audio_quality")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidHistoryLimit indicates that the history limit is not positive.
	ErrInvalidHistoryLimit = errors.New("history_limit must be a positive integer")
	// ErrInvalidBatchLimit indicates that the batch limit is not positive.
	ErrInvalidBatchLimit = errors.New("batch_limit must be a positive integer")
	// ErrNegativeDuration indicates that a duration setting is negative.
	ErrNegativeDuration = errors.New("duration must not be negative")
	// ErrUnknownKey indicates that SaveValue was asked to write a key the config does not have.
	ErrUnknownKey = errors.New("unknown configuration key")
)

var (
	//nolint:gochecknoglobals // Immutable pre-compiled pattern used as a constant.
	videoQualityPattern = regexp.MustCompile(`^\d{3,4}p$`)

	//nolint:gochecknoglobals // Immutable pre-compiled pattern used as a constant.
	audioQualityPattern = regexp.MustCompile(`^\d{2,3}kbps$`)
)

// LoadConfig loads configuration settings from a YAML file.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Keys returns the configuration keys accepted by SaveValue.
func Keys() []string {
	return []string{
		"output_path",
		"default_video_quality",
		"default_audio_quality",
		"log_level",
		"history_path",
		"history_limit",
		"batch_limit",
		"batch_item_interval",
		"metadata_cache_ttl",
		"thumbnail_timeout",
		"max_thumbnail_size",
		"embed_metadata",
		"use_backend_batch",
		"yt_dlp_path",
		"gallery_dl_path",
		"you_get_path",
		"ffmpeg_path",
		"theme",
	}
}

func setDefaults() {
	viper.SetDefault("output_path", "downloads")
	viper.SetDefault("default_video_quality", DefaultVideoQuality)
	viper.SetDefault("default_audio_quality", DefaultAudioQuality)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("history_path", DefaultHistoryFilename)
	viper.SetDefault("history_limit", DefaultHistoryLimit)
	viper.SetDefault("batch_limit", DefaultBatchLimit)
	viper.SetDefault("embed_metadata", true)
	viper.SetDefault("yt_dlp_path", "yt-dlp")
	viper.SetDefault("gallery_dl_path", "gallery-dl")
	viper.SetDefault("you_get_path", "you-get")
	viper.SetDefault("ffmpeg_path", "ffmpeg")
	viper.SetDefault("theme", "dark")
}

// ValidateConfig checks the configuration for validity and sets derived fields.
//
//nolint:cyclop // Validation functions naturally have high complexity due to sequential checks.
func ValidateConfig(cfg *Config) error {
	var err error

	if cfg.DefaultVideoQuality == "" {
		cfg.DefaultVideoQuality = DefaultVideoQuality
	}

	if !videoQualityPattern.MatchString(cfg.DefaultVideoQuality) {
		return fmt.Errorf("%w: '%s'", ErrInvalidVideoQuality, cfg.DefaultVideoQuality)
	}

	if cfg.DefaultAudioQuality == "" {
		cfg.DefaultAudioQuality = DefaultAudioQuality
	}

	if !audioQualityPattern.MatchString(cfg.DefaultAudioQuality) {
		return fmt.Errorf("%w: '%s'", ErrInvalidAudioQuality, cfg.DefaultAudioQuality)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if cfg.HistoryLimit <= 0 {
		return ErrInvalidHistoryLimit
	}

	if cfg.BatchLimit <= 0 {
		return ErrInvalidBatchLimit
	}

	cfg.ParsedBatchItemInterval, err = parseOptionalDuration(cfg.BatchItemInterval, 0)
	if err != nil {
		return fmt.Errorf("failed to parse batch item interval: %w", err)
	}

	cfg.ParsedMetadataCacheTTL, err = parseOptionalDuration(cfg.MetadataCacheTTL, defaultMetadataCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to parse metadata cache ttl: %w", err)
	}

	cfg.ParsedThumbnailTimeout, err = parseOptionalDuration(cfg.ThumbnailTimeout, defaultThumbnailTimeout)
	if err != nil {
		return fmt.Errorf("failed to parse thumbnail timeout: %w", err)
	}

	cfg.ParsedMaxThumbnailSize = defaultMaxThumbnailSize

	if maxThumbnailSize := strings.TrimSpace(cfg.MaxThumbnailSize); maxThumbnailSize != "" {
		parsedSize, parseErr := humanize.ParseBytes(maxThumbnailSize)
		if parseErr != nil {
			return fmt.Errorf("failed to parse max thumbnail size: %w", parseErr)
		}

		cfg.ParsedMaxThumbnailSize = utils.SafeUint64ToInt64(parsedSize)
	}

	return nil
}

func parseOptionalDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}

	if parsed < 0 {
		return 0, ErrNegativeDuration
	}

	return parsed, nil
}

// SaveValue writes a single key to the configuration file while preserving the original format and order.
func SaveValue(key, value string) error {
	if !isKnownKey(key) {
		return fmt.Errorf("%w: '%s'", ErrUnknownKey, key)
	}

	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, key, value, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setValueInNode(&node, key, value)

	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	viper.Set(key, value)

	return nil
}

func isKnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}

	return false
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file if it doesn't exist.
func handleMissingConfigFile(configFile, key, value string, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	viper.Set(key, value)

	if err = viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// setValueInNode updates the value of key in the top-level mapping, appending the pair when absent.
func setValueInNode(node *yaml.Node, key, value string) {
	if len(node.Content) == 0 {
		node.Kind = yaml.DocumentNode
		node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	mapNode := node.Content[0]
	if mapNode.Kind != yaml.MappingNode {
		return
	}

	// Key-value pairs are stored as alternating nodes.
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value != key {
			continue
		}

		valueNode := mapNode.Content[i+1]
		valueNode.Value = value
		valueNode.Tag = ""

		if valueNode.Style == 0 && strings.ContainsAny(value, ":#{}[]") {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value})
}
