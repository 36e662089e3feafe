// cmd/btyper/main.go
package main

import (
	"btyper/internal/app"
	"btyper/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
