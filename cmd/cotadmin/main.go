package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/entrust/internal/cotadmin"
)

func main() {
	if err := cotadmin.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
