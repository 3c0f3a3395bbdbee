package hclscript

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/evalforge/internal/builder"
)

// toConfig converts an evaluated arguments expression into a builder
// config. The expression must produce an object or map.
func toConfig(val cty.Value) (builder.Config, error) {
	if val.IsNull() {
		return builder.Config{}, nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("arguments must be an object, got %s", ty.FriendlyName())
	}
	cfg := builder.Config{}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		native, err := fromCty(v)
		if err != nil {
			return nil, err
		}
		cfg[k.AsString()] = native
	}
	return cfg, nil
}

// fromCty converts a cty value into its native Go equivalent. Whole
// numbers come back as int64 so builders can range-check counts without
// float round-tripping.
func fromCty(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			native, err := fromCty(v)
			if err != nil {
				return nil, err
			}
			out = append(out, native)
		}
		return out, nil
	case ty.IsMapType() || ty.IsObjectType():
		out := map[string]any{}
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			native, err := fromCty(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = native
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
