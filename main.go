package main

import "github.com/hive-org/hive/cmd"

func main() {
	cmd.Execute()
}
