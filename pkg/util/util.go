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

package util

import (
	"fmt"
	"runtime"
)

// AssertFunc panics when an invariant the caller believes can never be
// violated turns out false. Used for conditions that indicate a bug in
// this engine, never for data the caller can feed badly formed input into.
func AssertFunc(b bool) {
	if !b {
		panic("assertion failed")
	}
}

func ConvertPanicError(v interface{}) error {
	return fmt.Errorf("panic %v: %+v", v, Callers(3))
}

type Stack []uintptr

// Callers makes the depth customizable.
func Callers(depth int) *Stack {
	const numFrames = 32
	var pcs [numFrames]uintptr
	n := runtime.Callers(2+depth, pcs[:])
	var st Stack = pcs[0:n]
	return &st
}

// NextPowerOfTwo returns the smallest power of two >= v, or 1 when v == 0.
func NextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}

func IsPowerOfTwo(v uint64) bool {
	return v != 0 && (v&(v-1)) == 0
}

// Log2PowerOfTwo returns n such that 1<<n == v. v must be a power of two.
func Log2PowerOfTwo(v uint64) uint64 {
	AssertFunc(IsPowerOfTwo(v))
	var n uint64
	for v > 1 {
		v >>= 1
		n++
	}
	return n
}
