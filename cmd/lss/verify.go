// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/lossless-cash/lossless-go/runtime"
)

func verifyAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, gene)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(instanceDir, "main.db")); err != nil {
		return errors.Wrapf(err, "no persisted instance at [%v]", instanceDir)
	}

	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	rt, err := runtime.New(mainDB, gene, nil, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer rt.Close()

	violations, err := verifyReports(rt)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Println(v)
		}
		return fmt.Errorf("%d invariant violation(s) found", len(violations))
	}
	fmt.Println("all reports consistent")
	return nil
}

func verifyReports(rt *runtime.Runtime) ([]*runtime.Violation, error) {
	fmt.Println(">> Verifying reports <<")
	var bar *pb.ProgressBar
	defer func() {
		if bar != nil {
			bar.NotPrint = true
		}
	}()

	violations, err := rt.Verify(func(done, total uint64) {
		if bar == nil {
			bar = pb.New64(int64(total)).
				Set64(0).
				SetMaxWidth(90).
				Start()
		}
		bar.Set64(int64(done))
	})
	if err != nil {
		return nil, err
	}
	if bar != nil {
		bar.Finish()
	}
	return violations, nil
}
