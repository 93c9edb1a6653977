package common

import (
	"fmt"
	"os"
	"runtime/debug"
)

func PanicHandler() {
	r := recover()
	if r == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Panic occurred in strata %v\n", r)
	debug.PrintStack()

	os.Exit(1)
}
