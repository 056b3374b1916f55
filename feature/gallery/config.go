package gallery

// Config holds configuration for the gallery feature.
type Config struct {
	// Enabled toggles the feature. When false, reconciliation and event
	// processing report a skipped no-op instead of touching the catalog.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Prefix is the bucket prefix under which gallery media lives.
	Prefix string `mapstructure:"prefix" default:"gallery/"`
	// PublicBaseURL is the public access base that object keys are joined
	// onto to form each record's URL.
	PublicBaseURL string `mapstructure:"public_base_url" default:"http://localhost:9000/gallery"`
	// WebhookSecret is the pre-shared secret bucket notifications must
	// present. Unset rejects every notification.
	WebhookSecret string `mapstructure:"webhook_secret" default:""`
	// ScanIntervalSeconds is the period of the background reconciliation
	// job. Zero or less disables the scheduler.
	ScanIntervalSeconds int `mapstructure:"scan_interval_seconds" default:"300"`
}
