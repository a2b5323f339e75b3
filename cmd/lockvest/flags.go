// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the record and history databases",
		EnvVar: "LOCKVEST_DATA_DIR",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "megabytes of ram allocated to the record database",
		Value: 256,
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a genesis YAML file",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "initialize with the development genesis",
	}
	yesFlag = cli.BoolFlag{
		Name:  "yes",
		Usage: "do not ask for confirmation",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8679",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served under /metrics of the API",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address, empty to disable",
	}
	historyLimitFlag = cli.IntFlag{
		Name:  "history-limit",
		Value: 1000,
		Usage: "limit the number of history entries returned at once",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server the local clock is checked against, empty to disable",
	}
	driftToleranceFlag = cli.DurationFlag{
		Name:  "drift-tolerance",
		Value: defaultDriftTolerance,
		Usage: "clock drift tolerated before warning",
	}
	poolFlag = cli.StringFlag{
		Name:  "pool",
		Usage: "pool address, lockers also accept the genesis name of their base",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "owner address or genesis name",
	}
	receiptFlag = cli.Int64Flag{
		Name:  "receipt",
		Value: -1,
		Usage: "receipt id",
	}
	subjectFlag = cli.StringFlag{
		Name:  "subject",
		Usage: "only entries about this address or genesis name",
	}
	opFlag = cli.StringFlag{
		Name:  "op",
		Usage: "only entries of this operation",
	}
	outcomeFlag = cli.StringFlag{
		Name:  "outcome",
		Usage: "only entries with this outcome (ok|error|precondition|temporal|identity|arithmetic|insufficiency)",
	}
	limitFlag = cli.IntFlag{
		Name:  "limit",
		Value: 20,
		Usage: "maximum number of entries",
	}
	fileFlag = cli.StringFlag{
		Name:  "file",
		Usage: "snapshot file path",
	}
)
