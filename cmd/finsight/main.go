// Command finsight ingests financial documents and runs the question
// answering, summary and quiz pipelines over them, from the command line or
// as an HTTP service.
//
// Configuration is read from the environment and an optional .env file:
//
//	FINSIGHT_PROVIDER    - ollama, openai, anthropic or google (default: ollama)
//	FINSIGHT_MODEL       - chat model override
//	VECTOR_STORE_PATH    - badger directory for embedded chunks
//	LOGS_DIR             - chat history location
//	MCP_WORDS_PORT       - keyword MCP server port
//	MCP_PROXY_WORDS_PORT - relay port
//	JWT_SECRET_KEY       - shared relay secret
//
// Usage:
//
//	finsight ingest ./reports
//	finsight ask "What was operating cash flow in Q3?"
//	finsight serve
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
