// Package packing enumerates the six axis-aligned orientations of a box on a
// pallet, keeps the ones that fit under the stack height limit, and ranks them
// by how much of the pallet footprint the resulting box grid covers.
package packing
