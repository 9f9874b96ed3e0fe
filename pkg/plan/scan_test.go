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

package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spc-engine/spc/pkg/page"
)

func TestScanThenMaterializeIsIdentity(t *testing.T) {
	table := idValTable(
		[]int32{1, 2, 3, 4},
		[]string{"one", "two", "three", "four"},
		[]bool{false, true, false, false},
		[]bool{false, false, true, false},
	)

	scan := NewScanNode(0, []int{0, 1}, idValAttrs())
	p := &Plan{Inputs: []page.ColumnarTable{table}, Root: scan}
	res, err := Execute(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, decodeInts(&table.Columns[0]), decodeInts(&res.Columns[0]))
	assert.Equal(t, decodeStrings(&table.Columns[1]), decodeStrings(&res.Columns[1]))
}

func TestScanPlanPrintsWithoutPanicking(t *testing.T) {
	table := idValTable([]int32{1}, []string{"a"}, nil, nil)
	scan := NewScanNode(0, []int{0, 1}, idValAttrs())
	p := &Plan{Inputs: []page.ColumnarTable{table}, Root: scan}
	assert.NotEmpty(t, p.Print())
}
