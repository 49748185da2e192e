package main

import "github.com/mvp-joe/docstrings/internal/cli"

func main() {
	cli.Execute()
}
