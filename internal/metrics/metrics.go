package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	avatarUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_avatar_uploads_total",
		Help: "Number of avatar upload attempts grouped by status.",
	}, []string{"status"})

	followToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_follow_toggles_total",
		Help: "Number of follow toggles grouped by resulting action.",
	}, []string{"action"})

	proxyCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_github_proxy_cache_total",
		Help: "GitHub proxy lookups grouped by cache result.",
	}, []string{"result"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forumhub_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncAvatarUpload increments the avatar upload counter.
func IncAvatarUpload(status string) {
	avatarUploads.WithLabelValues(status).Inc()
}

// IncFollowToggle increments the follow toggle counter.
func IncFollowToggle(action string) {
	followToggles.WithLabelValues(action).Inc()
}

// IncProxyCache increments the proxy cache counter (hit / miss / refresh).
func IncProxyCache(result string) {
	proxyCache.WithLabelValues(result).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
