package main

import "github.com/zappabad/stonks9800/internal/cmd"

func main() {
	cmd.Execute()
}
