package config

import "fmt"

// ModuleName is the name printed by the CLI.
const ModuleName = "web3-hd"

// Set through -ldflags "-X github/chapool/web3-hd/internal/config.BuildVersion=..." at build time.
var (
	BuildVersion = "-"
	BuildCommit  = "-"
	BuildDate    = "-"
)

// GetFormattedBuildArgs renders the build information for `--version`.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", BuildVersion, BuildCommit, BuildDate)
}
