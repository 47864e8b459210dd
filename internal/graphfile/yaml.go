package graphfile

import (
	"github.com/specialistvlad/nodemachine/internal/node"
	"gopkg.in/yaml.v3"
)

func encodeYAML(nodes node.Map) ([]byte, error) {
	return yaml.Marshal(nodes)
}

func decodeYAML(src []byte) (node.Map, error) {
	var nodes node.Map
	if err := yaml.Unmarshal(src, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
