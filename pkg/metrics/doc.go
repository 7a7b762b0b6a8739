// Package metrics instruments message chains with Prometheus collectors.
//
//	m, err := metrics.New(prometheus.DefaultRegisterer)
//	if err != nil {
//	    return err
//	}
//
//	b := chain.NewBuilder[OrderPlaced]()
//	b.Use(
//	    chain.Concurrent[OrderPlaced](8),
//	    metrics.Instrument[OrderPlaced](m, "orders"),
//	)
//
// Exported series, labelled by chain name:
//
//   - msgchain_messages_total{chain,outcome}
//   - msgchain_in_flight{chain}
//   - msgchain_handle_duration_seconds{chain,outcome}
package metrics
