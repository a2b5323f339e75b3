// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/genesis"
	"github.com/vechain/lockvest/log"
)

func selectGenesis(ctx *cli.Context) (*genesis.Config, error) {
	if ctx.Bool(devFlag.Name) {
		return genesis.NewDevnet(), nil
	}
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, fmt.Errorf("either -%s or -%s must be given", genesisFlag.Name, devFlag.Name)
	}
	return genesis.Load(path)
}

// wipe removes the databases of the data dir.
func wipe(dataDir string) error {
	for _, name := range []string{recordDBName, historyDBName} {
		if err := os.RemoveAll(filepath.Join(dataDir, name)); err != nil {
			return errors.Wrapf(err, "remove %v", name)
		}
	}
	return nil
}

func initAction(ctx *cli.Context) error {
	cfg, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	existing, err := inst.genesisResult()
	if err != nil {
		inst.Close()
		return err
	}
	if existing != nil {
		if !ctx.Bool(yesFlag.Name) {
			ok, err := confirm(fmt.Sprintf("data dir [%v] is already initialized, wipe it?", inst.dir))
			if err != nil {
				inst.Close()
				return err
			}
			if !ok {
				inst.Close()
				return errors.New("aborted")
			}
		}
		inst.Close()
		if err := wipe(inst.dir); err != nil {
			return err
		}
		if inst, err = openInstance(ctx); err != nil {
			return err
		}
	}
	defer inst.Close()

	bar := pb.New64(int64(cfg.Steps())).
		SetMaxWidth(90).
		Start()
	defer func() { bar.NotPrint = true }()

	res, err := cfg.Apply(inst.engine, func() { bar.Add64(1) })
	if err != nil {
		return errors.Wrap(err, "apply genesis")
	}
	bar.Finish()

	if err := inst.saveGenesisResult(res); err != nil {
		return err
	}
	log.Info("data dir initialized",
		"dir", inst.dir,
		"lockers", len(res.Lockers),
		"legacyLockers", len(res.LegacyLockers),
		"stakePools", len(res.StakePools),
	)
	return nil
}
