package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// JSOptions controls EncodeJS.
type JSOptions struct {
	// Minify collapses whitespace and syntax in the emitted module.
	Minify bool
	// Banner is written as a line comment above the module.
	Banner string
}

// EncodeJS renders d as the CommonJS config module read by the site
// generator (module.exports = {...}). The result is run through esbuild so
// that only syntactically valid modules are returned.
func EncodeJS(d *Descriptor, opts JSOptions) ([]byte, error) {
	body, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode js descriptor: %w", err)
	}

	var src bytes.Buffer
	if opts.Banner != "" {
		for _, line := range strings.Split(opts.Banner, "\n") {
			src.WriteString("// ")
			src.WriteString(line)
			src.WriteByte('\n')
		}
	}
	src.WriteString("module.exports = ")
	src.Write(body)
	src.WriteString("\n")

	transformOpts := api.TransformOptions{
		Loader:   api.LoaderJS,
		Target:   api.ES2015,
		LogLevel: api.LogLevelSilent,
	}
	if opts.Minify {
		transformOpts.MinifyWhitespace = true
		transformOpts.MinifySyntax = true
	}

	result := api.Transform(src.String(), transformOpts)
	if len(result.Errors) > 0 {
		var errMsg string
		for _, e := range result.Errors {
			if e.Location != nil {
				errMsg += fmt.Sprintf("%d:%d: %s\n", e.Location.Line, e.Location.Column, e.Text)
			} else {
				errMsg += e.Text + "\n"
			}
		}
		return nil, fmt.Errorf("esbuild rejected config module:\n%s", errMsg)
	}

	if !opts.Minify {
		// esbuild reprints the module; keep the readable source instead.
		return src.Bytes(), nil
	}
	return result.Code, nil
}
