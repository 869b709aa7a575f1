// Command navguard-sim replays navigation scenarios against an exit guard and prints
// what happened at every step.
//
// Usage:
//
//	navguard-sim run testdata/quiz-back.toml --expect-depth 3
//	navguard-sim validate scenarios/*.yaml
package main

import (
	"fmt"
	"os"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
)

func main() {
	err := newRootCmd().Execute()
	navguard.CloseLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
