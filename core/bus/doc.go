// Package bus is an in-process publish/subscribe bus for a single message type.
//
// Subscribers are chain functions. Publish calls every subscriber in
// subscription order and joins their errors; a fire-and-forget chain
// returns as soon as its message is queued.
//
//	b := bus.New[OrderPlaced](bus.WithLogger(logger))
//
//	builder := chain.NewBuilder[OrderPlaced]()
//	builder.Use(chain.First(func(o OrderPlaced) bool { return o.Total > 1000 }))
//	_ = builder.HandleFunc(notifySales)
//
//	// The chain unsubscribes itself after the first large order.
//	c, err := bus.SubscribeChain(b, builder)
//
//	err = b.Publish(ctx, OrderPlaced{ID: "42", Total: 1500})
package bus
