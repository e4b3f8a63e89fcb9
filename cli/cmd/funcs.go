package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/ardnew/xpr/lang/builtin"
)

// Funcs lists the functions available to expressions.
type Funcs struct {
	Format string `help:"Output format" default:"text" enum:"text,yaml" short:"o"`
}

// funcInfo describes one registered function.
type funcInfo struct {
	Name   string `yaml:"name"`
	Origin string `yaml:"origin"`
	Doc    string `yaml:"doc"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	infos, err := describeFunctions(ctx)
	if err != nil {
		return err
	}

	out := stdout(ctx)

	if f.Format == formatYAML {
		return encodeYAML(ctx, out, infos)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Origin, info.Doc)
	}

	err = tw.Flush()
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	return nil
}

// describeFunctions returns the functions a parser built from ctx would have,
// in registration order.
func describeFunctions(ctx context.Context) ([]funcInfo, error) {
	p, err := newParser(ctx)
	if err != nil {
		return nil, err
	}

	scripts, err := functionsFrom(ctx).scripts()
	if err != nil {
		return nil, ErrRegister.Wrap(err)
	}

	sources := make(map[string]string)

	for _, s := range scripts {
		for _, def := range s.Defs {
			sources[strings.ToLower(def.Name)] = def.Source
		}
	}

	infos := make([]funcInfo, 0, p.Functions().Len())

	for name := range p.Functions().Names() {
		info := funcInfo{Name: name, Origin: "host"}

		if src, ok := sources[strings.ToLower(name)]; ok {
			info.Origin, info.Doc = "script", src
		} else if b, ok := builtin.Lookup(name); ok {
			info.Origin, info.Doc = "builtin", b.Doc
		}

		infos = append(infos, info)
	}

	return infos, nil
}
