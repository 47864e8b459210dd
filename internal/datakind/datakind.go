// Package datakind parses the data-kind tags declared on pins and decides
// whether a value produced by an output pin may flow into an input pin.
//
// Kind tags are HCL type expressions: `number`, `string`, `bool`,
// `list(number)`, `map(string)`, `object({x = number})` and `any`.
package datakind

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Any is the kind tag accepted and produced by untyped pins.
const Any = "any"

// Parse converts a kind tag into its cty.Type. An empty tag means Any.
func Parse(kind string) (cty.Type, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" || kind == Any {
		return cty.DynamicPseudoType, nil
	}

	expr, diags := hclsyntax.ParseExpression([]byte(kind), "kind", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid data kind %q: %w", kind, diags)
	}

	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid data kind %q: %w", kind, diags)
	}
	return ty, nil
}

// ParseAll parses every tag in kinds. No tags at all means Any.
func ParseAll(kinds []string) ([]cty.Type, error) {
	if len(kinds) == 0 {
		return []cty.Type{cty.DynamicPseudoType}, nil
	}
	types := make([]cty.Type, 0, len(kinds))
	for _, k := range kinds {
		ty, err := Parse(k)
		if err != nil {
			return nil, err
		}
		types = append(types, ty)
	}
	return types, nil
}

// Compatible reports whether a value of the produced type can be fed into a
// pin accepting any of the given types. Dynamic types on either side always
// match; otherwise the types must be equal or safely convertible.
func Compatible(produced cty.Type, accepted []cty.Type) bool {
	for _, want := range accepted {
		if compatible(produced, want) {
			return true
		}
	}
	return false
}

func compatible(produced, accepted cty.Type) bool {
	if produced == cty.DynamicPseudoType || accepted == cty.DynamicPseudoType {
		return true
	}
	if produced.Equals(accepted) {
		return true
	}
	return convert.GetConversion(produced, accepted) != nil
}

// String renders a type back into its kind tag.
func String(ty cty.Type) string {
	if ty == cty.DynamicPseudoType {
		return Any
	}
	return typeexpr.TypeString(ty)
}
