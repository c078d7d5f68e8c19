package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-mimelite/cmd/mimelite/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
