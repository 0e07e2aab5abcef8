package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameEncounters       = "encounters_total"
	MetricNameCharactersJailed = "characters_jailed_total"
	MetricNameBattles          = "battles_total"
	MetricNameBountiesClaimed  = "bounties_claimed_total"
	MetricNameStockTrades      = "stock_trades_total"
	MetricNameItemsBought      = "items_bought_total"
	MetricNameAchievements     = "achievements_earned_total"
	MetricNameMoneyEarned      = "money_earned_total"
	MetricNameMoneySpent       = "money_spent_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextEncounters       = "Total number of resolved crimes, missions and gym sessions"
	HelpTextCharactersJailed = "Total number of characters caught committing crimes"
	HelpTextBattles          = "Total number of resolved battles"
	HelpTextBountiesClaimed  = "Total number of bounties claimed"
	HelpTextStockTrades      = "Total number of stock trades"
	HelpTextItemsBought      = "Total number of items bought"
	HelpTextAchievements     = "Total number of achievements earned"
	HelpTextMoneyEarned      = "Total money entering the game from rewards, dividends and income"
	HelpTextMoneySpent       = "Total money leaving the game through purchases"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelType        = "type"
	LabelItem        = "item"
	LabelActivity    = "activity"
	LabelOutcome     = "outcome"
	LabelSymbol      = "symbol"
	LabelSide        = "side"
	LabelAchievement = "achievement"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeAttacker = "attacker_won"
	OutcomeDefender = "defender_won"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)

// unmatchedRoute labels requests that no route matched
const unmatchedRoute = "unmatched"
