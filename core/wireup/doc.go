// Package wireup installs chain decorators from declarative specs.
//
// Each concern is described by a Spec value whose Kind selects an installer
// from a Table. Installers are registered explicitly; there is no runtime
// scanning. Specs can be written in Go, decoded from YAML, or derived from
// environment configuration.
//
//	table := wireup.NewTable[OrderPlaced]()
//
//	specs, err := wireup.ParseYAML([]byte(`
//	- kind: retry
//	  max_attempts: 3
//	  delays: [100ms, 1s]
//	- kind: concurrent
//	  workers: 8
//	`))
//
//	b := chain.NewBuilder[OrderPlaced]()
//	if err := table.Install(b, specs...); err != nil {
//	    return err
//	}
//	_ = b.HandleFunc(processOrder)
//
// Specs are pushed in order, so the last spec becomes the outermost decorator.
package wireup
