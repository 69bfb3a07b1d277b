package main

import "github.com/upca/personnel-console/cmd"

func main() {
	cmd.Execute()
}
