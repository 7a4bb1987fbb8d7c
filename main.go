package main

import "github.com/Fastcode/NUClear/tools/cmd"

func main() {
	cmd.Execute()
}
