// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// lockvest runs the token custody and time-release engine.
package main

import (
	"fmt"
	"log/slog"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	// logLevel is shared with the admin service
	logLevel *slog.LevelVar

	flags = []cli.Flag{
		dataDirFlag,
		cacheFlag,
		verbosityFlag,
		jsonLogsFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "lockvest"
	app.Usage = "Token custody and time-release engine"
	app.Copyright = fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear)
	app.Flags = flags
	app.Commands = []cli.Command{
		{
			Name:   "init",
			Usage:  "initialize the data dir from a genesis file",
			Flags:  []cli.Flag{genesisFlag, devFlag, yesFlag},
			Action: initAction,
		},
		{
			Name:  "serve",
			Usage: "serve the read API, admin and metrics",
			Flags: []cli.Flag{
				apiAddrFlag,
				apiCorsFlag,
				enableAPILogsFlag,
				enableMetricsFlag,
				adminAddrFlag,
				historyLimitFlag,
				ntpServerFlag,
				driftToleranceFlag,
			},
			Action: serveAction,
		},
		{
			Name:  "inspect",
			Usage: "dump engine records",
			Subcommands: []cli.Command{
				{
					Name:   "genesis",
					Usage:  "list what genesis created",
					Action: inspectGenesisAction,
				},
				{
					Name:   "locker",
					Usage:  "dump a locker, an escrow or a receipt",
					Flags:  []cli.Flag{poolFlag, ownerFlag, receiptFlag},
					Action: inspectLockerAction,
				},
				{
					Name:   "stakepool",
					Usage:  "dump a stake pool or a position",
					Flags:  []cli.Flag{poolFlag, ownerFlag},
					Action: inspectStakePoolAction,
				},
			},
		},
		{
			Name:   "history",
			Usage:  "list executed operations, newest first",
			Flags:  []cli.Flag{subjectFlag, opFlag, outcomeFlag, limitFlag},
			Action: historyAction,
		},
		{
			Name:   "export",
			Usage:  "write every committed record into a snapshot",
			Flags:  []cli.Flag{fileFlag},
			Action: exportAction,
		},
		{
			Name:   "import",
			Usage:  "load a snapshot into an empty data dir",
			Flags:  []cli.Flag{fileFlag},
			Action: importAction,
		},
	}
	app.Before = func(ctx *cli.Context) (err error) {
		logLevel, err = initLogger(ctx)
		return
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
