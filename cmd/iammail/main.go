package main

import "iammail/internal/cli"

func main() {
	cli.Execute()
}
