package main

import "github.com/stylo-labs/stylo/cmd"

func main() {
	cmd.Execute()
}
