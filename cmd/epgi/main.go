package main

import (
	"context"
	"fmt"
	"os"

	"github.com/glabrego/epgi/cmd/epgi/cmds"
)

func main() {
	if err := cmds.NewRootCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
