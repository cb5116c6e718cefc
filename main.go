package main

import "github/chapool/web3-hd/cmd"

func main() {
	cmd.Execute()
}
