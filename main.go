package main

import "github.com/albaledger/portal/cmd"

func main() {
	cmd.Execute()
}
