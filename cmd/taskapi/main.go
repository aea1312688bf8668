package main

import "github.com/aussiebroadwan/taskapi/cmd/taskapi/cmd"

func main() {
	cmd.Execute()
}
