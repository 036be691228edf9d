package constant

// Streaming API defaults. The base URL is deployment configuration; these are only the factory values.
const (
	DefaultAPIBaseURL = "http://localhost:3000/api/v1"
	DirectPath        = "/stream/direct"
	ProxyPath         = "/stream/proxy"

	// DefaultProfileID is sent as profile-id when no profile is active.
	DefaultProfileID = "default"

	// FrontendProtocolHeader carries the host's transport scheme so the API can avoid mixed-content proxies.
	FrontendProtocolHeader = "X-Frontend-Protocol"

	// IntroFilename is the name of the extracted IntroClip in the assets directory.
	IntroFilename = "intro.y4m"
)
