package main

import "library-manager/cmd"

func main() {
	cmd.Execute()
}
