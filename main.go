package main

import "gone/cmd"

func main() {
	cmd.Execute()
}
