// Package chain composes message handlers out of ordered decorator stacks.
//
// A chain is built from zero or more decorator factories and exactly one
// terminal handler. Decorators implement cross-cutting concerns such as
// bounded concurrency, throughput shaping, retries, deduplication and
// self-terminating subscriptions.
//
// # Building
//
// Decorators are pushed onto a Builder before the handler is set. The
// decorator pushed last becomes the outermost layer: it runs first on the
// way in and last on the way out.
//
//	b := chain.NewBuilder[OrderPlaced]()
//	b.Use(
//	    chain.Retry[OrderPlaced](3, 100*time.Millisecond),
//	    chain.Concurrent[OrderPlaced](4),
//	)
//	if err := b.HandleFunc(processOrder); err != nil {
//	    return err
//	}
//
//	c, err := b.BuildChain(nil)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	err = c.Handle(ctx, OrderPlaced{ID: "42"})
//
// # Build Notification
//
// Factories receive a BuildServices value. Decorators that need to dispose
// the chain they belong to (First, TakeWhile, WhileAlive) register an OnBuilt
// callback and receive the chain handle once it exists. Decorators that own
// background workers register OnDispose cleanups and start their loops with
// BuildServices.Go so that Chain.Wait can observe their exit.
//
// # Blocking vs Fire-and-Forget
//
// Concurrent and LimitedThroughput return to the caller only after the inner
// handler finished and propagate its error. Their fire-and-forget variants
// return as soon as the message is queued; handler errors are logged and
// otherwise swallowed so a failing message cannot stop the worker loop.
// Fire-and-forget queues are unbounded.
//
// # Outcomes
//
// Cancellation is classified separately from failure. ClassifyOutcome maps a
// handler result to Succeeded, Cancelled or Failed, and the Observe decorator
// routes each message to the matching callback.
package chain
