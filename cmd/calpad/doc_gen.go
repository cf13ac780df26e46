//go:build ignore
// +build ignore

package main

import (
	"log"

	calpad "github.com/mithrel/calpad/internal/cli"
	"github.com/spf13/cobra/doc"
)

func main() {
	root := calpad.NewRootCmd()

	if err := doc.GenMarkdownTree(root, "./docs/markdown"); err != nil {
		log.Fatal(err)
	}

	header := &doc.GenManHeader{
		Title:   "CALPAD",
		Section: "1",
	}
	if err := doc.GenManTree(root, header, "./docs/man"); err != nil {
		log.Fatal(err)
	}
}
