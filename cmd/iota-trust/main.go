package main

import (
	"os"
	"path/filepath"

	"github.com/iotaledger/iota-trust/cmd/iota-trust/commands"
	"github.com/iotaledger/iota-trust/config"
	"github.com/iotaledger/iota-trust/libs/cli"
	"github.com/iotaledger/iota-trust/libs/log"
)

func main() {
	conf := config.DefaultConfig()
	logger, err := log.NewDefaultLogger(conf.LogFormat, conf.LogLevel)
	if err != nil {
		panic(err)
	}

	rootCmd := commands.RootCommand(conf, logger)
	rootCmd.AddCommand(
		commands.MakeInitCommand(conf, logger),
		commands.MakeSyncCommand(conf, logger),
		commands.MakeCheckTransactionCommand(conf, logger),
		commands.MakeCheckObjectCommand(conf, logger),
		commands.MakeCheckpointCommand(conf, logger),
		commands.MakeKVCommand(conf, logger),
		commands.VersionCmd,
	)

	cmd := cli.PrepareBaseCmd(rootCmd, "IOTA_TRUST", os.ExpandEnv(filepath.Join("$HOME", config.DefaultIotaTrustDir)))
	os.Exit(cli.Execute(cmd, os.Stderr))
}
