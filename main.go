package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ollama/ollama-client/cmd"
)

func main() {
	if err := cmd.NewCLI().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
