package main

import "board-sync/cmd"

func main() {
	cmd.Execute()
}
