// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/aurora-stream/aurora/color"
	"github.com/aurora-stream/aurora/constant"
	"github.com/aurora-stream/aurora/key"
	"github.com/aurora-stream/aurora/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered setting: its key, factory value and help text.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env is the environment variable that overrides the field, e.g. AURORA_PLAYER_SKIP_SECONDS.
func (f *Field) Env() string {
	return strings.ToUpper(constant.Aurora + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Current is the effective value after the config file and environment were applied.
func (f *Field) Current() any {
	return viper.Get(f.Key)
}

// Type names the Go type of the factory value.
func (f *Field) Type() string {
	return fmt.Sprintf("%T", f.Value)
}

// Changed reports whether the effective value differs from the factory value.
func (f *Field) Changed() bool {
	return fmt.Sprint(f.Current()) != fmt.Sprint(f.Value)
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"key":         f.Key,
		"env":         f.Env(),
		"type":        f.Type(),
		"value":       f.Current(),
		"default":     f.Value,
		"description": f.Description,
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string) {
	if _, exists := Default[k]; exists {
		panic("Duplicate config key: " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.APIBaseURL, constant.DefaultAPIBaseURL, "Base URL of the streaming API")
	register(key.StreamDirectPath, constant.DirectPath, "Path of the direct-fetch resolution endpoint, relative to the API base URL")
	register(key.StreamProxyPath, constant.ProxyPath, "Path of the authenticated stream proxy, relative to the API base URL.\nProxy URLs containing this path are fetched manually with the bearer token")
	register(key.StreamFrontendScheme, "http:", "Transport scheme reported to the API in the X-Frontend-Protocol header.\nUse \"https:\" when the host is served over TLS")
	register(key.StreamDefaultProfile, constant.DefaultProfileID, "Profile id sent to the proxy when no profile is selected")
	register(key.NetworkTimeout, 60, "HTTP client timeout in seconds")
	register(key.NetworkTLSFingerprint, false, "Negotiate TLS with a Chrome client hello.\nSome CDNs reject the default Go fingerprint")
	register(key.ResolverFailureThreshold, 3, "Consecutive probe failures before the resolver stops probing and uses the proxy directly")
	register(key.ResolverCooldown, 30, "Seconds the resolver skips probing after reaching the failure threshold")
	register(key.Player, "mpv", "Media player backend to use")
	register(key.PlayerIntro, "", "Path of the intro clip played before every stream.\nEmpty uses the bundled clip in the config assets directory")
	register(key.PlayerControlsTimeout, 3, "Seconds of inactivity before playback controls hide")
	register(key.PlayerSkipSeconds, 10, "Seconds to skip with the back/forward controls")
	register(key.PlayerVolumeStep, 10, "Volume change per key press, in percent")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		return lo.Ternary(value, style.Fg(color.Green), style.Fg(color.Red))(strconv.FormatBool(value))
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Yellow)(value)
	default:
		return style.Fg(color.Cyan)(fmt.Sprint(value))
	}
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":  style.Faint,
	"bold":   style.Bold,
	"accent": style.Fg(style.AccentColor),
	"hl":     highlight,
}).Parse(`{{ bold .Key }} {{ faint .Type }}{{ if .Changed }} {{ accent "(changed)" }}{{ end }}
{{ faint .Description }}
  env      {{ .Env }}
  value    {{ hl .Current }}
  default  {{ hl .Value }}`))
