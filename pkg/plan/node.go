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

// Package plan holds the DAG the engine executes: Scan leaves reading
// caller-supplied columnar tables and Join nodes hash-joining their
// children's output on a single INT32 key, plus the root materializer
// that writes the final result back into the same paged format the
// inputs arrived in.
package plan

import "github.com/spc-engine/spc/pkg/common"

type NodeType int

const (
	NodeTypeScan NodeType = iota
	NodeTypeJoin
)

// Attr names one column a node's output carries.
type Attr struct {
	Name string
	Type common.DataType
}

// Node is one operator in the plan DAG. Its shape depends on Type: Scan
// nodes read TableIndex/ScanColumns, Join nodes read Left/Right/the key
// attribute indices.
type Node struct {
	Type NodeType

	// Scan
	TableIndex  int
	ScanColumns []int

	// Join
	Left, Right  *Node
	LeftKeyAttr  int
	RightKeyAttr int

	OutputAttrs []Attr
}

func NewScanNode(tableIndex int, scanColumns []int, attrs []Attr) *Node {
	return &Node{
		Type:        NodeTypeScan,
		TableIndex:  tableIndex,
		ScanColumns: scanColumns,
		OutputAttrs: attrs,
	}
}

// NewJoinNode builds a join over two children keyed on one INT32 attribute
// each. The join's output is every left attribute followed by every right
// attribute, in their children's own order.
func NewJoinNode(left, right *Node, leftKeyAttr, rightKeyAttr int) *Node {
	attrs := make([]Attr, 0, len(left.OutputAttrs)+len(right.OutputAttrs))
	attrs = append(attrs, left.OutputAttrs...)
	attrs = append(attrs, right.OutputAttrs...)
	return &Node{
		Type:         NodeTypeJoin,
		Left:         left,
		Right:        right,
		LeftKeyAttr:  leftKeyAttr,
		RightKeyAttr: rightKeyAttr,
		OutputAttrs:  attrs,
	}
}
