package cmd

import "github.com/ardnew/xpr/lang"

// Command errors share the structured error type of package lang so that
// attributes attached by the compiler or evaluator survive to the final log
// record.
var (
	ErrRegister    = lang.NewError("register functions")
	ErrEvaluate    = lang.NewError("evaluate expression")
	ErrReadInput   = lang.NewError("read expressions")
	ErrEncode      = lang.NewError("encode output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
	ErrNoInput     = lang.NewError("no expressions given")
)
