package main

import "github.com/crystaldolphin/agentgen/cmd"

func main() {
	cmd.Execute()
}
