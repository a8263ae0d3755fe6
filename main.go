package main

import (
	"github.com/mj1618/arrange/cmd"
	_ "github.com/mj1618/arrange/internal/platform/darwin"
)

func main() {
	cmd.Execute()
}
