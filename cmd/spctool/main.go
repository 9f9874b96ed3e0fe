// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command spctool drives the join engine outside of a test binary: it
// builds two synthetic INT32/VARCHAR tables, hash-joins them and reports
// how long the run took, the same shape of harness cmd/tester drove the
// teacher engine's query suite with.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spc-engine/spc/pkg/common"
	"github.com/spc-engine/spc/pkg/page"
	"github.com/spc-engine/spc/pkg/plan"
	"github.com/spc-engine/spc/pkg/util"
)

var cfg util.Config
var cfgFile string

func main() {
	root := &cobra.Command{
		Use:   "spctool",
		Short: "drive the parallel hash-join engine against synthetic tables",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "toml config file (see util.Config)")
	root.PersistentFlags().BoolVar(&cfg.Debug.PrintPlan, "print-plan", false, "print the operator tree before running it")
	root.PersistentFlags().BoolVar(&cfg.Debug.PrintResult, "print-result", false, "print the joined row count after running")
	root.PersistentFlags().IntVar(&cfg.Bench.LeftRows, "left-rows", 100000, "rows in the synthetic left table")
	root.PersistentFlags().IntVar(&cfg.Bench.RightRows, "right-rows", 100000, "rows in the synthetic right table")

	bench := &cobra.Command{
		Use:   "bench",
		Short: "build two synthetic tables and hash-join them",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				if err := loadConfig(cfgFile); err != nil {
					return err
				}
			}
			return runBench(cfg)
		},
	}
	root.AddCommand(bench)

	if err := root.Execute(); err != nil {
		util.Error("spctool failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path string) error {
	viper.SetConfigFile(path)
	viper.SetConfigType("toml")
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func runBench(cfg util.Config) error {
	left := syntheticTable(cfg.Bench.LeftRows, 1000)
	right := syntheticTable(cfg.Bench.RightRows, 1000)

	leftAttrs := []plan.Attr{{Name: "id", Type: common.DataTypeInt32}, {Name: "val", Type: common.DataTypeVarchar}}
	rightAttrs := []plan.Attr{{Name: "id", Type: common.DataTypeInt32}, {Name: "val", Type: common.DataTypeVarchar}}

	scanLeft := plan.NewScanNode(0, []int{0, 1}, leftAttrs)
	scanRight := plan.NewScanNode(1, []int{0, 1}, rightAttrs)
	join := plan.NewJoinNode(scanLeft, scanRight, 0, 0)

	p := &plan.Plan{Inputs: []page.ColumnarTable{left, right}, Root: join}

	if cfg.Debug.PrintPlan {
		fmt.Println(p.Print())
	}

	start := time.Now()
	result, err := plan.Execute(context.Background(), p)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	util.Info("bench finished", zap.Uint64("resultRows", result.NumRows), zap.Duration("elapsed", elapsed))
	if cfg.Debug.PrintResult {
		fmt.Printf("joined rows: %d (in %s)\n", result.NumRows, elapsed)
	}
	return nil
}

// syntheticTable builds an (id INT32, val VARCHAR) table of numRows rows
// with ids drawn from [0, keySpace) so join selectivity is easy to reason
// about at the command line.
func syntheticTable(numRows, keySpace int) page.ColumnarTable {
	t := page.ColumnarTable{NumRows: uint64(numRows)}
	t.Columns = make([]page.Column, 2)
	t.Columns[0].Type = common.DataTypeInt32
	t.Columns[1].Type = common.DataTypeVarchar

	idWriter := page.NewInt32Writer(&t.Columns[0])
	valWriter := page.NewVarcharWriter(&t.Columns[1])
	r := rand.New(rand.NewSource(42))
	for i := 0; i < numRows; i++ {
		id := int32(r.Intn(keySpace))
		idWriter.Append(true, id)
		valWriter.AppendString([]byte(fmt.Sprintf("row-%d", i)))
	}
	idWriter.Finish()
	valWriter.Finish()
	return t
}
