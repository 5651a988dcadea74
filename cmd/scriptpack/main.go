package main

import (
	"os"

	"git.home.luguber.info/inful/scriptpack/cmd/scriptpack/commands"
)

func main() {
	os.Exit(commands.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
