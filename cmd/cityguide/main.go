package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/cityguide/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.DefaultBuilder).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
