// Package algo talks to the external graph-algorithm service.
//
// The service exposes one POST endpoint per algorithm [Kind]. Every request
// carries the current edge list as {graph: {edges: [...]}} plus the fields the
// kind needs; responses are decoded into a single [Response] whose populated
// fields depend on the kind.
//
// [Client.Run] classifies failures with the codes from pkg/errors:
//
//   - a non-2xx status is SERVICE_ERROR wrapping a [*StatusError]
//   - a 2xx body with an "error" field is SERVICE_ERROR wrapping a [*ServerError]
//   - transport and decoding failures are NETWORK_ERROR
//
// Cancellation of the context is not a failure: Run returns an error that
// satisfies errors.Is(err, context.Canceled) and callers report it separately.
// There are no retries and no client-side timeout.
package algo
