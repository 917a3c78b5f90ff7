package main

import "github.com/milaboratories/clonotype-browser/cmd"

func main() {
	cmd.Execute()
}
