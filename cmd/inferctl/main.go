package main

import (
	"os"

	"inferd/internal/ctl"
)

func main() {
	os.Exit(ctl.Execute())
}
