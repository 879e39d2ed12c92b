// Package gf2 provides vectors and square matrices over the binary field.
//
// The package is the common representation consumed by every generating
// matrix builder and by the digital net evaluator:
//
//   - [Vector]: fixed-length bit vector
//   - [Matrix]: immutable m×m bit matrix stored column by column
//
// Columns are backed by [bitset.BitSet], so the resolution m is not bounded
// by the machine word. Bit i of a column is row i of the matrix.
//
// # Example
//
//	m := gf2.Identity(4)
//	v := gf2.VectorFromIndex(5, 4)
//	prod, _ := m.Multiply(v)
//
// Matrices are never mutated after construction and are safe to share
// between goroutines.
package gf2
