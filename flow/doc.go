// Package flow runs small directed acyclic graphs of named steps over a
// caller-owned state value.
//
// A Flow is declared once and kicked off many times. Each step reads and
// writes the shared state and returns a Result: a payload map tagged as
// success or failure. Steps never abort a run by panicking or returning an
// error; every step is wrapped by Guard, which turns both into a failure
// Result carrying either a caller-supplied default payload or a generic
// message.
//
// # Declaring a flow
//
//	f := flow.New[MyState]("qa")
//	f.Step("get_the_question", getQuestion)
//	f.Step("answer", answer, flow.After("get_the_question"),
//	    flow.WithDefault(flow.Payload{"success": false, "answer": "unavailable"}))
//	f.Step("keywords", keywords, flow.After("answer"))
//
//	run, err := f.Kickoff(ctx, &MyState{Question: q})
//	// err is only non-nil for an invalid graph or nil state
//	fmt.Println(run.Output["success"])
//
// # Execution
//
// Steps run one at a time in topological order; ties are broken by
// registration order. A step runs only after all its predecessors ran. When
// a step fails, every step that depends on it, directly or through other
// steps, is skipped. Independent branches keep running. ContinueOnError runs
// every step regardless.
//
// Run.Output merges the payloads of the executed steps that no other executed
// step follows, in execution order, applying failed payloads last so that a
// failure flag is never hidden by a sibling.
//
// # Streaming
//
// KickoffStream emits event.Event values for the run and for every step. A
// non-empty output is sent as one message of JSON just before RunEnd. The
// agui package maps them to AG-UI protocol events.
package flow
