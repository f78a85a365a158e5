package core

import (
	_ "embed"
	"strings"
)

//go:embed version
var clientVersion string

// ClientVersion is the SDK release reported in the User-Agent header.
func ClientVersion() string {
	return strings.TrimSpace(clientVersion)
}
