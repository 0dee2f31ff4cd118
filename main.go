package main

import "github.com/plumsh/plumsh/cmd"

func main() {
	cmd.Execute()
}
