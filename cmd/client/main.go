package main

import "lecturapozos/cmd/client/cmd"

func main() {
	cmd.Execute()
}
