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
	"fmt"

	"github.com/xlab/treeprint"
)

// Print renders the plan's operator tree, mirroring the way the teacher
// engine prints a physical plan for --print-plan style debugging.
func (p *Plan) Print() string {
	root := treeprint.New()
	p.Root.print(root)
	return root.String()
}

func (n *Node) print(parent treeprint.Tree) {
	switch n.Type {
	case NodeTypeScan:
		branch := parent.AddBranch(fmt.Sprintf("Scan(table=%d, columns=%v)", n.TableIndex, n.ScanColumns))
		branch.AddNode(attrsString(n.OutputAttrs))
	case NodeTypeJoin:
		branch := parent.AddBranch(fmt.Sprintf("HashJoin(left.%d = right.%d)", n.LeftKeyAttr, n.RightKeyAttr))
		branch.AddNode(attrsString(n.OutputAttrs))
		n.Left.print(branch)
		n.Right.print(branch)
	}
}

func attrsString(attrs []Attr) string {
	s := "attrs:"
	for _, a := range attrs {
		s += fmt.Sprintf(" %s(%s)", a.Name, a.Type)
	}
	return s
}
