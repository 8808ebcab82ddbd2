package config

// defaults apply when neither the file nor the environment sets a key.
var defaults = map[string]any{
	"app.name":                      "otpgate",
	"app.env":                       "local",
	"app.tz":                        "Asia/Dhaka",
	"app.goroutine.max":             100,
	"app.server.http.address":       ":8080",
	"app.server.http.read_timeout":  "10s",
	"app.server.http.write_timeout": "15s",
	"app.server.http.idle_timeout":  "60s",

	"instrument.enabled":            false,
	"instrument.metrics_interval":   "15s",
	"instrument.trace_sample_ratio": 1.0,
	"instrument.mask_fields":        []string{"otp", "code", "password"},

	"database.pool.max_conns":          10,
	"database.pool.min_conns":          1,
	"database.pool.max_conn_lifetime":  "1h",
	"database.pool.max_conn_idle_time": "30m",
	"database.migrate":                 true,

	"messaging.driver":                       "memory",
	"messaging.nats.max_reconnects":          10,
	"messaging.nats.timeout":                 "2s",
	"messaging.nats.reconnect_wait":          "2s",
	"messaging.nats.retry_on_failed_connect": true,

	"sms.driver":              "log",
	"sms.timeout":             "10s",
	"sms.applink.base_url":    "https://api.applink.com.bd",
	"sms.applink.max_retries": 2,

	"modules.verification.enabled":                true,
	"modules.verification.store.driver":           "memory",
	"modules.verification.store.retention":        "24h",
	"modules.verification.store.redis.prefix":     "verification:challenge:",
	"modules.verification.challenge.ttl":          "5m",
	"modules.verification.challenge.max_attempts": 3,
	"modules.verification.challenge.cas_retries":  5,
	"modules.verification.events.enabled":         true,
	"modules.verification.reaper.enabled":         true,
	"modules.verification.reaper.at":              "00:00",
	"modules.verification.reaper.timezone":        "Asia/Dhaka",
	"modules.verification.reaper.lock_duration":   "5m",
	"modules.verification.reaper.dedup_ttl":       "24h",
	"modules.verification.reaper.archive.enabled": false,
	"modules.verification.reaper.archive.prefix":  "verification/sweeps",
}
