package main

import "github.com/LeJamon/goYieldVault/internal/cli"

func main() {
	cli.Execute()
}
