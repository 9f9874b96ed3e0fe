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
	"fmt"

	"github.com/spc-engine/spc/pkg/page"
	"github.com/spc-engine/spc/pkg/util"
)

// Execute runs a plan to completion and materializes its root node's
// output into the same paged table format its inputs arrived in. A panic
// on the calling goroutine (an invariant violation, not an expected error)
// is converted into a returned error rather than crashing the caller. A
// panic inside a build or probe worker goroutine is not recovered and
// terminates the process.
func Execute(ctx context.Context, p *Plan) (result *page.ColumnarTable, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = util.ConvertPanicError(r)
		}
	}()

	res, err := executeImpl(ctx, p, p.Root)
	if err != nil {
		return nil, err
	}
	out := materializeRoot(p.Inputs, res)
	return &out, nil
}

func executeImpl(ctx context.Context, p *Plan, n *Node) (*Result, error) {
	switch n.Type {
	case NodeTypeScan:
		return executeScan(p, n), nil
	case NodeTypeJoin:
		return executeJoin(ctx, p, n)
	default:
		return nil, fmt.Errorf("plan: unknown node type %d", n.Type)
	}
}
