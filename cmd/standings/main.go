// cmd/standings prints competition standings from the configured database.
//
// Usage:
//
//	go run ./cmd/standings show --competition 1 --discipline fs-4way --format table
//	go run ./cmd/standings disciplines
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	c := newCommandContext()
	if err := execute(context.Background(), c, newRootCommand(c)); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
