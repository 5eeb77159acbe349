package main

import (
	aitoolscmd "github.com/yurisbeljimenez/aitools/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	aitoolscmd.SetVersionInfo(version, commit)
	aitoolscmd.Execute()
}
