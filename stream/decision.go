// Package stream decides how a stream locator may be fetched: directly from its origin, or
// through the same-origin proxy of the streaming API.
package stream

// Mode is the transport chosen for the main asset.
type Mode string

const (
	// Direct means the URL can be handed to the media element as-is.
	Direct Mode = "direct"
	// Proxied means the asset goes through the API proxy, possibly with injected headers.
	Proxied Mode = "proxied"
)

// Decision is the resolved transport for one session. It is never mutated after Resolve.
type Decision struct {
	Mode Mode   `json:"mode"`
	URL  string `json:"url"`
}

func (d Decision) String() string {
	return string(d.Mode) + " " + d.URL
}
