// Package pipeline implements the middleware chain that requests and
// responses pass through on their way between protocol adapters.
//
// # Processing Model
//
// A Pipeline holds an ordered list of Middleware. Requests traverse the
// chain in registration order; responses traverse it in reverse, so the
// first middleware to see a request is the last to see its response:
//
//	p := pipeline.New(pipeline.WithLogger(logger))
//	p.Use(authMW)
//	p.Use(metricsMW)
//
//	req, err := p.ProcessRequest(ctx, req)   // auth, then metrics
//	resp, err := p.ProcessResponse(ctx, resp) // metrics, then auth
//
// # Short Circuits
//
// The first middleware to return an error during request processing
// stops the chain. The error is wrapped so callers can identify both
// the failing middleware and the stage:
//
//	if util.IsShortCircuit(err) {
//		// request never reached the adapter
//	}
//
// # Error Recovery
//
// ProcessError gives middlewares a chance to turn a failure into a
// response. Hooks run in registration order and the first one to return
// a non-nil Response wins. If none does, the caller gets the original
// error back unchanged.
package pipeline
