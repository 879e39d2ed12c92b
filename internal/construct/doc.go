// Package construct builds generating matrices over GF(2).
//
// Each builder is a pure function of its inputs:
//
//   - [SobolMatrix]: direction numbers + primitive polynomial recurrence
//   - [PolynomialLatticeMatrix]: formal series expansion of h(z)/P(z)
//   - [ExplicitMatrices]: matrices supplied row by row
//   - [Interlace]: groups base matrices into interlaced coordinates
//
// Validation happens here, at construction time. Matrices returned by this
// package are safe to evaluate without further checks.
package construct
