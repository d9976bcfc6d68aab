package main

import "sifter/cmd"

func main() {
	cmd.Execute()
}
