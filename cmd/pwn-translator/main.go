package main

import "pwn-translator/internal/cli"

func main() {
	cli.Execute()
}
