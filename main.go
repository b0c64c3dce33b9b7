package main

import "macio/cmd"

func main() {
	cmd.Execute()
}
