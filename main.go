package main

import "btree/cmd"

func main() {
	cmd.Execute()
}
