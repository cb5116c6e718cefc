package probe

import (
	"github.com/spf13/cobra"
	"github/chapool/web3-hd/internal/util/command"
)

const (
	verboseFlag string = "verbose"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newRPC(),
		newSeed(),
	)
}
