// Package main is the entry point of the code-atlas server.
package main

import (
	"code-atlas/internal"
)

func main() {
	internal.Init()
}
