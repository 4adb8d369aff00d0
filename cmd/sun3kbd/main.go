/*
This is the entrypoint for the sun3kbd binary.
*/
package main

import (
	"fmt"
	"os"

	"github.com/jetkvm/sun3kbd/cmd"
	"github.com/jetkvm/sun3kbd/internal/utils"
)

func main() {
	utils.SetProcTitle("sun3kbd")
	rootCmd := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
