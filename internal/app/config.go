package app

import (
	"context"

	"github.com/oshokin/media-grabber/internal/config"
	"github.com/oshokin/media-grabber/internal/logger"
)

// ExecuteConfigSetCommand writes one setting to the configuration file, keeping its layout.
func ExecuteConfigSetCommand(ctx context.Context, key, value string) {
	if err := config.SaveValue(key, value); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Infof(ctx, "Configuration updated: %s = %s", key, value)
}
