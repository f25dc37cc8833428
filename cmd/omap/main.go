package main

import "github.com/arl/omap/cmd/omap/cmd"

func main() {
	cmd.Execute()
}
