// Package application wires the pallet planner together: the cached packing
// enumerator, the session store, renderers, the API router, and the HTTP
// server that also serves the browser front end.
package application
