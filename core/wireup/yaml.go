package wireup

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// decoders maps each built-in kind to its YAML decoder.
var decoders = map[Kind]func(*yaml.Node) (Spec, error){
	KindConcurrent: decodeAs[ConcurrentSpec],
	KindThroughput: decodeAs[ThroughputSpec],
	KindSemaphore:  decodeAs[SemaphoreSpec],
	KindRetry:      decodeAs[RetrySpec],
	KindTimeout:    decodeAs[TimeoutSpec],
}

// ParseYAML decodes a YAML sequence of specs. Each item names its concern
// with a kind field; the remaining fields belong to the concrete spec.
// Durations use Go syntax such as 250ms or 1m.
func ParseYAML(data []byte) ([]Spec, error) {
	var nodes []yaml.Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse specs: %w", err)
	}

	specs := make([]Spec, 0, len(nodes))
	for i := range nodes {
		var head struct {
			Kind Kind `yaml:"kind"`
		}
		if err := nodes[i].Decode(&head); err != nil {
			return nil, fmt.Errorf("spec %d: %w", i, err)
		}

		decode, ok := decoders[head.Kind]
		if !ok {
			return nil, fmt.Errorf("spec %d: %w: %q", i, ErrUnknownKind, head.Kind)
		}

		spec, err := decode(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("spec %d (%s): %w", i, head.Kind, err)
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

func decodeAs[S Spec](n *yaml.Node) (Spec, error) {
	var s S
	if err := n.Decode(&s); err != nil {
		return nil, err
	}
	return s, nil
}
