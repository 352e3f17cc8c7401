// Package internal holds iterator helpers shared by the rvsim packages.
package internal

import (
	"iter"
)

// IterSeq2Concat concatenates key/value sequences, in order.
// A key may be yielded more than once; consumers building a map get
// last-one-wins semantics.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
