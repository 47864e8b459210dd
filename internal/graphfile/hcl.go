package graphfile

import (
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// hclFile is the root schema of an HCL graph file.
type hclFile struct {
	Nodes []*hclNode `hcl:"node,block"`
}

// hclNode is one `node "<id>" { ... }` block.
type hclNode struct {
	ID     string            `hcl:"id,label"`
	Type   string            `hcl:"type"`
	X      float64           `hcl:"x,optional"`
	Y      float64           `hcl:"y,optional"`
	Width  float64           `hcl:"width,optional"`
	Height float64           `hcl:"height,optional"`
	Inputs map[string]string `hcl:"inputs,optional"`
	// Data is evaluated without variables; gohcl hands us a null expression
	// when the attribute is absent.
	Data hcl.Expression `hcl:"data,optional"`
}

func decodeHCL(filename string, src []byte) (node.Map, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	nodes := make(node.Map, len(root.Nodes))
	for _, blk := range root.Nodes {
		if _, dup := nodes[blk.ID]; dup {
			return nil, fmt.Errorf("node '%s' is declared more than once", blk.ID)
		}

		data, err := decodeData(blk.Data)
		if err != nil {
			return nil, fmt.Errorf("node '%s': %w", blk.ID, err)
		}
		nodes[blk.ID] = &node.Node{
			ID:        blk.ID,
			Type:      blk.Type,
			X:         blk.X,
			Y:         blk.Y,
			Width:     blk.Width,
			Height:    blk.Height,
			InputPins: blk.Inputs,
			Data:      data,
		}
	}
	return nodes, nil
}

func decodeData(expr hcl.Expression) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	native, err := ctyToNative(val)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	if native == nil {
		return nil, nil
	}
	data, ok := native.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("data must be an object, got %s", val.Type().FriendlyName())
	}
	return data, nil
}

func encodeHCL(nodes node.Map) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, id := range slices.Sorted(maps.Keys(nodes)) {
		n := nodes[id]
		if i > 0 {
			root.AppendNewline()
		}
		body := root.AppendNewBlock("node", []string{id}).Body()
		body.SetAttributeValue("type", cty.StringVal(n.Type))
		body.SetAttributeValue("x", cty.NumberFloatVal(n.X))
		body.SetAttributeValue("y", cty.NumberFloatVal(n.Y))
		body.SetAttributeValue("width", cty.NumberFloatVal(n.Width))
		body.SetAttributeValue("height", cty.NumberFloatVal(n.Height))

		if len(n.InputPins) > 0 {
			pins := make(map[string]cty.Value, len(n.InputPins))
			for pin, src := range n.InputPins {
				pins[pin] = cty.StringVal(src)
			}
			body.SetAttributeValue("inputs", cty.MapVal(pins))
		}

		if len(n.Data) > 0 {
			val, err := nativeToCty(n.Data)
			if err != nil {
				return nil, fmt.Errorf("node '%s': invalid data: %w", id, err)
			}
			body.SetAttributeValue("data", val)
		}
	}
	return f.Bytes(), nil
}
