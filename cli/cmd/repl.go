package cmd

import (
	"context"

	"github.com/ardnew/xpr/cli/cmd/repl"
	"github.com/ardnew/xpr/log"
)

// Repl starts an interactive session.
type Repl struct {
	NoHistory bool `help:"Do not read or write command history"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	p, err := newParser(ctx)
	if err != nil {
		return err
	}

	infos, err := describeFunctions(ctx)
	if err != nil {
		return err
	}

	docs := make(map[string]string, len(infos))
	for _, info := range infos {
		docs[info.Name] = info.Doc
	}

	var cacheDir string

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, p, docs, cacheDir, log.Default())
}
