// Package pointset evaluates lattice rules and digital nets as lazy point
// sets in the unit cube.
//
// The main types:
//
//   - [PointSet]: the read-only view shared by every construction
//   - [Lattice]: ordinary (rank-1) lattice rules, n = base^power points
//   - [DigitalNet]: digital nets in base 2 from GF(2) generating matrices,
//     with optional interlacing
//
// Nothing is computed until a point or coordinate is requested. Use
// [Materialize] to collect a bounded set eagerly, or [Select] to evaluate a
// sparse set of indices.
//
// Example:
//
//	net, err := pointset.NewDigitalNet(matrices, 1)
//	if err != nil {
//		return err
//	}
//	coarse, err := net.Truncate(4)
//	for x := range coarse.Coordinate(0) {
//		fmt.Println(x)
//	}
package pointset
