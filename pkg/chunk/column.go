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

package chunk

import "github.com/spc-engine/spc/pkg/common"

// ValuesPerPage is the persisted page's byte budget (8192) divided by 8,
// i.e. 1024 values per intermediate page. Value itself is 16 bytes, so
// one intermediate page of values occupies 16 KiB, twice a persisted page.
const ValuesPerPage = 8192 / 8

// Column is an append-only, paged array of tagged values produced by a
// scan or join operator. It is sized one page at a time so a long-running
// probe never has to repeatedly grow one giant backing array.
//
// Column is move-only in intent: callers pass *Column between operators
// rather than copying the struct, since a copy would alias the same
// backing pages.
type Column struct {
	Type  common.DataType
	pages [][ValuesPerPage]Value
	n     int
}

func NewColumn(t common.DataType) *Column {
	return &Column{Type: t}
}

func (c *Column) Len() int {
	return c.n
}

func (c *Column) Append(v Value) {
	pageIdx := c.n / ValuesPerPage
	if pageIdx == len(c.pages) {
		c.pages = append(c.pages, [ValuesPerPage]Value{})
	}
	c.pages[pageIdx][c.n%ValuesPerPage] = v
	c.n++
}

func (c *Column) At(idx int) Value {
	return c.pages[idx/ValuesPerPage][idx%ValuesPerPage]
}
