// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvest/oplog"
)

func printHistory(w io.Writer, entries []*oplog.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%6d  %s  %-28s %-13s %v  amount=%d  elapsed=%v\n",
			e.Seq,
			time.Unix(int64(e.At), 0).UTC().Format(time.RFC3339),
			e.Op,
			e.Outcome,
			e.Subject,
			e.Amount,
			common.PrettyDuration(e.Elapsed),
		)
	}
}

func historyAction(ctx *cli.Context) error {
	filter := oplog.Filter{
		Op:      ctx.String(opFlag.Name),
		Outcome: ctx.String(outcomeFlag.Name),
		Limit:   ctx.Int(limitFlag.Name),
	}
	if s := ctx.String(subjectFlag.Name); s != "" {
		subject, err := parseIdentity(s)
		if err != nil {
			return err
		}
		filter.Subject = &subject
	}

	inst, err := openInstance(ctx)
	if err != nil {
		return err
	}
	defer inst.Close()

	entries, err := inst.history.Query(filter)
	if err != nil {
		return err
	}
	printHistory(os.Stdout, entries)
	return nil
}
