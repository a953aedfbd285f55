// cmd/ragagent/main.go
package main

import (
	cmd "github.com/RoySYH/RAG-based-Agentic-AI/internal/cli"
)

// main starts the ragagent CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
