package achievement

import "time"

// Cache defaults
const (
	DefaultCacheSize = 4096
	DefaultCacheTTL  = 30 * time.Minute
)

// Error message constants
const (
	ErrMsgReevaluateFailed = "failed to evaluate achievements: %w"
	ErrMsgListFailed       = "failed to list achievements: %w"
)

// Log messages
const (
	LogMsgAchievementEarned = "Achievement earned"
)
