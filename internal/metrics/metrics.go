package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	Encounters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEncounters,
			Help: HelpTextEncounters,
		},
		[]string{LabelType, LabelActivity, LabelOutcome},
	)

	CharactersJailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCharactersJailed,
			Help: HelpTextCharactersJailed,
		},
	)

	Battles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBattles,
			Help: HelpTextBattles,
		},
		[]string{LabelOutcome},
	)

	BountiesClaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBountiesClaimed,
			Help: HelpTextBountiesClaimed,
		},
	)

	StockTrades = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStockTrades,
			Help: HelpTextStockTrades,
		},
		[]string{LabelSymbol, LabelSide},
	)

	ItemsBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsBought,
			Help: HelpTextItemsBought,
		},
		[]string{LabelItem},
	)

	AchievementsEarned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAchievements,
			Help: HelpTextAchievements,
		},
		[]string{LabelAchievement},
	)

	MoneyEarned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMoneyEarned,
			Help: HelpTextMoneyEarned,
		},
		[]string{LabelType},
	)

	MoneySpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMoneySpent,
			Help: HelpTextMoneySpent,
		},
		[]string{LabelType},
	)
)
