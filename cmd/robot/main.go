package main

import (
	"proptax-robot/cmd/robot/cmd"
)

func main() {
	cmd.Execute()
}
