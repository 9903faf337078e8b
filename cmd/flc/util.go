package main

import (
	"fmt"

	"github.com/flowlang/flc/nodetype"
)

func mangledName(moduleFullName, funcName string) string {
	return nodetype.MangleFuncName(moduleFullName, funcName)
}

func errFuncNotFound(funcName, moduleFullName string) error {
	return fmt.Errorf("module %q has no function %q", moduleFullName, funcName)
}

// exitCodeError lets "run"/"interpret" propagate the executed
// program's own returned exec path as the process's exit code
// (spec.md §6: "otherwise the program's own return") without calling
// os.Exit directly inside RunE, which would tear down the process
// (and any test harness) before cobra's normal Execute/return flow
// finishes.
type exitCodeError struct{ code int }

func (e *exitCodeError) Error() string { return "" }

func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &exitCodeError{code}
}
