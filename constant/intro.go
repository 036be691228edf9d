package constant

import _ "embed"

// IntroClip is the default intro, copied to the assets directory on first play.
//
//go:embed intro.y4m
var IntroClip []byte
