// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/clock"
	"github.com/vechain/lockvest/engine"
	"github.com/vechain/lockvest/genesis"
	"github.com/vechain/lockvest/locker"
	"github.com/vechain/lockvest/log"
	"github.com/vechain/lockvest/lvldb"
	"github.com/vechain/lockvest/oplog"
	"github.com/vechain/lockvest/store"
	"github.com/vechain/lockvest/thor"
)

const (
	defaultDriftTolerance = 5 * time.Second

	genesisMetaKey = "genesis"
	recordDBName   = "records.db"
	historyDBName  = "history.db"
)

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("flag value %d exceeds max int", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "parse verbosity flag")
	}
	level := &slog.LevelVar{}
	level.Set(log.FromLegacyLevel(lvl))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level, nil
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".lockvest")
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// instance bundles the databases of a data dir with the engine over them.
type instance struct {
	dir     string
	db      *lvldb.LevelDB
	store   *store.Store
	history *oplog.OpLog
	engine  *engine.Engine
}

func openInstance(ctx *cli.Context) (*instance, error) {
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, err
	}
	cacheMB := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name))
	log.Debug("cache size(MB)", "size", cacheMB)

	dir := filepath.Join(dataDir, recordDBName)
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB})
	if err != nil {
		return nil, errors.Wrapf(err, "open record database [%v]", dir)
	}
	s, err := store.New(db, 0)
	if err != nil {
		db.Close()
		return nil, err
	}
	history, err := oplog.New(filepath.Join(dataDir, historyDBName))
	if err != nil {
		db.Close()
		return nil, err
	}
	return &instance{
		dir:     dataDir,
		db:      db,
		store:   s,
		history: history,
		engine:  engine.New(s, clock.System{}, history),
	}, nil
}

func (i *instance) Close() {
	if err := i.history.Close(); err != nil {
		log.Warn("failed to close history database", "err", err)
	}
	if err := i.db.Close(); err != nil {
		log.Warn("failed to close record database", "err", err)
	}
}

func (i *instance) genesisResult() (*genesis.Result, error) {
	data, err := i.store.GetMeta(genesisMetaKey)
	if err != nil || data == nil {
		return nil, err
	}
	var res genesis.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrap(err, "decode genesis result")
	}
	return &res, nil
}

func (i *instance) mustInitialized() (*genesis.Result, error) {
	res, err := i.genesisResult()
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("data dir [%v] is not initialized, run init first", i.dir)
	}
	return res, nil
}

func (i *instance) saveGenesisResult(res *genesis.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return i.store.PutMeta(genesisMetaKey, data)
}

// parseIdentity resolves a command line address. Hex strings are taken literally,
// anything else is a genesis name.
func parseIdentity(s string) (thor.Address, error) {
	if s == "" {
		return thor.Address{}, errors.New("missing address")
	}
	return genesis.Identity(s).Address()
}

// parseLocker resolves a locker address. Names resolve to the locker of that base.
func parseLocker(s string) (thor.Address, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseIdentity(s)
	}
	base, err := parseIdentity(s)
	if err != nil {
		return thor.Address{}, err
	}
	return locker.PoolAddress(base), nil
}

// confirm asks a yes/no question on the terminal. It fails when there is no terminal.
func confirm(question string) (bool, error) {
	t, err := tty.Open()
	if err != nil {
		return false, errors.Wrap(err, "open tty")
	}
	defer t.Close()

	fmt.Fprintf(os.Stderr, "%s [y/N] ", question)
	answer, err := t.ReadString()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
