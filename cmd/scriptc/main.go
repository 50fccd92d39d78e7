package main

import "scriptc/cmd"

func main() {
	cmd.Execute()
}
