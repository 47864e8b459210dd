package graphfile

import (
	"github.com/bytedance/sonic"
	"github.com/specialistvlad/nodemachine/internal/node"
)

func encodeJSON(nodes node.Map) ([]byte, error) {
	out, err := sonic.ConfigStd.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func decodeJSON(src []byte) (node.Map, error) {
	var nodes node.Map
	if err := sonic.ConfigStd.Unmarshal(src, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}
