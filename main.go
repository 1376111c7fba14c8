package main

import (
	"github.com/foomo/sitecheck/cmd"
)

func main() {
	cmd.Execute()
}
