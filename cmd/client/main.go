package main

import "os"

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printHelp()
		os.Exit(2)
	}
	os.Exit(runCLI(args))
}
