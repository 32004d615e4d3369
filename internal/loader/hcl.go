package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "parameters"},
		{Type: "equation"},
		{Type: "rename"},
	},
}

type equationBlock struct {
	Left  string `hcl:"left"`
	Right string `hcl:"right"`
}

func decodeHCL(file string, src []byte) (*document, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, file)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
	}

	content, diags := f.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
	}

	doc := &document{}
	for _, block := range content.Blocks.OfType("equation") {
		var eq equationBlock
		if diags := gohcl.DecodeBody(block.Body, nil, &eq); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode equation in %s: %w", file, diags)
		}
		doc.Equations = append(doc.Equations, EquationDef{Left: eq.Left, Right: eq.Right})
	}

	if block, diags := findUniqueBlock(content.Blocks, "parameters"); diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", file, diags)
	} else if block != nil {
		doc.Parameters = make(map[string]float64)
		if err := decodeAttributes(block, cty.Number, func(name string, v cty.Value) error {
			var f float64
			if err := gocty.FromCtyValue(v, &f); err != nil {
				return err
			}
			doc.Parameters[name] = f
			return nil
		}); err != nil {
			return nil, fmt.Errorf("%s: parameters: %w", file, err)
		}
	}

	if block, diags := findUniqueBlock(content.Blocks, "rename"); diags.HasErrors() {
		return nil, fmt.Errorf("%s: %w", file, diags)
	} else if block != nil {
		doc.Rename = make(map[string]string)
		if err := decodeAttributes(block, cty.String, func(name string, v cty.Value) error {
			doc.Rename[name] = v.AsString()
			return nil
		}); err != nil {
			return nil, fmt.Errorf("%s: rename: %w", file, err)
		}
	}

	return doc, nil
}

// findUniqueBlock returns the single block of the given type, nil if there is
// none, or a diagnostic if there is more than one.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks.OfType(name) {
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed per file.",
				Subject:  &block.DefRange,
			})
		}
		found = block
	}
	return found, diags
}

// decodeAttributes evaluates every attribute of block without variables,
// converts it to want and hands it to fn.
func decodeAttributes(block *hcl.Block, want cty.Type, fn func(name string, v cty.Value) error) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		v, err := convertValue(v, want)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := fn(name, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func convertValue(v cty.Value, want cty.Type) (cty.Value, error) {
	if v.IsNull() {
		return cty.NilVal, fmt.Errorf("value must not be null")
	}
	return convert.Convert(v, want)
}
