package main

import (
	"github.com/darkquasar/purplerepo/internal/cmd"
)

func main() {
	cmd.Execute()
}
