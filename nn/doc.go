// Package nn adapts the library's neural-network primitive operations to
// the native CPU engine's calling conventions. Each function is a pure
// transformation: it normalizes its arguments (scalar-or-tuple spatial
// parameters, data format, padding mode), brackets the engine call with
// layout transpositions where the caller used channels-last, and returns
// the result in the caller's convention. The engine itself is
// channels-first only, takes symmetric integer padding, and exposes
// rank-specific 1D/2D/3D spatial primitives; everything this package does
// exists to reconcile those conventions with the public contract.
//
// No state is kept between calls. Invalid arguments are reported as
// errors; failures inside the engine (unsupported dtypes, allocation)
// propagate as panics, matching the engine's own convention for
// programming errors.
package nn
