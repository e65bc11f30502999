package main

import "github.com/JonMunkholm/sigem/internal/cli"

func main() {
	cli.Execute()
}
