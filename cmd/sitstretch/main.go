package main

import "sitstretch/cmd/sitstretch/cmd"

func main() {
	cmd.Execute()
}
