// Package version carries build metadata set with -ldflags:
//
//	go build -ldflags "-X github.com/matiasleandrokruk/zephyrtools/internal/version.Version=v1.2.0"
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("zephyrtools version %s (commit %s, built %s)", Version, Commit, BuildTime)
}
