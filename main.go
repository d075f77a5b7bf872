package main

import (
	"os"

	"github.com/scan-io-git/a11yscan/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
