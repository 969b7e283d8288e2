package helpers

import (
	"strings"
	"time"

	"github.com/kyra/interntrack/internal/pkg/logger"
)

// DurationSetting resolves a configured duration such as "5m" for the named setting.
// An unset value yields fallback quietly; a malformed or non-positive one yields fallback
// with a warning naming the setting.
func DurationSetting(setting, value string, fallback time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err == nil && d > 0 {
		return d
	}

	event := logger.Warn().Str("setting", setting).Str("value", value).Dur("fallback", fallback)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("Ignoring unusable duration setting")
	return fallback
}
