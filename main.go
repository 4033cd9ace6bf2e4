package main

import "github.com/jsphweid/yargchart/cmd"

func main() {
	cmd.Execute()
}
