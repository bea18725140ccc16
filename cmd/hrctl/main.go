// Package main is the entry point for the hrctl CLI.
package main

import (
	"github.com/cmlabs-hris/hr-analytics-go/internal/cmd"
)

func main() {
	cmd.Execute()
}
