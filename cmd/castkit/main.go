package main

import "github.com/castkit-project/castkit/internal/cli"

func main() {
	cli.Execute()
}
