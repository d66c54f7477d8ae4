// Copyright (c) 2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sorter

import "sort"

// LessFunc reports whether p1 should sort before p2 for a single key.
type LessFunc[T any] func(p1, p2 T) bool

// MultiKeySorter sorts a list by a chain of keys. Earlier keys take
// precedence, and later keys only break ties of the earlier ones.
type MultiKeySorter[T any] struct {
	// List is the slice being sorted
	List []T
	// list of functions which will be called by OrderedBy
	less []LessFunc[T]
}

// OrderedBy returns a sorter which orders by the given keys in turn.
func OrderedBy[T any](less ...LessFunc[T]) *MultiKeySorter[T] {
	return &MultiKeySorter[T]{
		less: less,
	}
}

// Sort sorts the list in place. Elements which compare equal on every
// key keep their original relative order.
func (ms *MultiKeySorter[T]) Sort(list []T) {
	ms.List = list
	sort.Stable(ms)
}

// Len is part of sort.Interface.
func (ms *MultiKeySorter[T]) Len() int {
	return len(ms.List)
}

// Swap is part of sort.Interface.
func (ms *MultiKeySorter[T]) Swap(i, j int) {
	ms.List[i], ms.List[j] = ms.List[j], ms.List[i]
}

// Less is part of sort.Interface. It walks the keys until one of them
// decides the order.
func (ms *MultiKeySorter[T]) Less(i, j int) bool {
	if len(ms.less) == 0 {
		return false
	}
	p, q := ms.List[i], ms.List[j]
	var k int
	for k = 0; k < len(ms.less)-1; k++ {
		less := ms.less[k]
		switch {
		case less(p, q):
			// p < q, so we have a decision.
			return true
		case less(q, p):
			// p > q, so we have a decision.
			return false
		}
		// p == q; try the next comparison.
	}
	// All comparisons to here said "equal", so just return whatever
	// the final comparison reports.
	return ms.less[k](p, q)
}
