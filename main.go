package main

import "github.com/notargets/femkit/cmd"

func main() {
	cmd.Execute()
}
