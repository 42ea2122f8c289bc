// Package version exposes build metadata.
package version

// Version is overridden at build time with
// -ldflags "-X github.com/mandalnilabja/chatrelay/internal/version.Version=v1.2.3".
var Version = "dev"

// AppName is the service name reported by status endpoints.
const AppName = "chatrelay"
