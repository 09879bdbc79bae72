// Package storage holds the transient, in-memory state of the service: the
// bounded session store and the enumeration cache. Nothing here outlives the
// process.
package storage
