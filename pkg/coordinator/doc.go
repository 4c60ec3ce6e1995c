// Package coordinator runs algorithm requests against the current graph and
// writes the results back onto it.
//
// A [Coordinator] owns at most one outstanding request. Starting a run while
// another is in flight cancels the older one (supersession), and [Coordinator.Cancel]
// aborts the current one. A cancelled run always settles as [StatusCancelled]:
// whatever the service eventually returns for it is discarded, and only the
// run that is still current may touch the status line.
//
// Results are applied as style changes on the store. Ids in a response that
// no longer exist in the store are skipped.
package coordinator
