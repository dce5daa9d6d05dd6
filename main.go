package main

import "clitter/cmd"

func main() {
	cmd.Execute()
}
