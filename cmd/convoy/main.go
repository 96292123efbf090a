package main

import "github.com/tessro/convoy/internal/cli"

func main() {
	cli.Execute()
}
