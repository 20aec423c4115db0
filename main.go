package main

import "github.com/CaskBytes/vinolab-cli/cmd"

func main() {
	cmd.Execute()
}
