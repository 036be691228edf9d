// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Streaming API - these keys locate the resolution and proxy endpoints.
const (
	APIBaseURL           = "api.base_url"
	StreamDirectPath     = "stream.direct_path"
	StreamProxyPath      = "stream.proxy_path"
	StreamFrontendScheme = "stream.frontend_scheme"
	StreamDefaultProfile = "stream.default_profile"
)

// Network - these keys tune the shared HTTP client.
const (
	NetworkTimeout        = "network.timeout"
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Resolver - these keys govern how repeated probe failures are absorbed.
const (
	ResolverFailureThreshold = "resolver.failure_threshold"
	ResolverCooldown         = "resolver.cooldown"
)

// Media Playback - these keys configure the playback backend and the player screen.
const (
	Player                = "player.default"
	PlayerIntro           = "player.intro"
	PlayerControlsTimeout = "player.controls_timeout"
	PlayerSkipSeconds     = "player.skip_seconds"
	PlayerVolumeStep      = "player.volume_step"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
