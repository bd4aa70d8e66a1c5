// Package finsight holds the provider-neutral types shared by the finsight
// packages: chat messages, request options, tool definitions, embeddings and
// categorized errors.
//
// The root package is conventionally imported as ai:
//
//	import ai "github.com/spetersoncode/finsight"
//
// The pieces fit together as follows:
//
//   - [github.com/spetersoncode/finsight/client] talks to Ollama, OpenAI,
//     Anthropic or Google and implements [github.com/spetersoncode/finsight/chat.Client].
//   - [github.com/spetersoncode/finsight/crew] turns a chat client and a prompt
//     definition into a text generator.
//   - [github.com/spetersoncode/finsight/flow] runs named steps over a shared
//     state in dependency order and isolates step failures.
//   - [github.com/spetersoncode/finsight/pipeline] wires crews, the vector store
//     and the quiz parser into the Q&A, summary and MCQ flows.
//
// Errors returned by providers implement [CategorizedError]; use
// [IsTransient] to decide whether a call may be retried.
package finsight
