// Package agui streams flow runs to AG-UI frontends.
//
// AG-UI (Agent-User Interface) is an open, event-based protocol that
// standardizes how agents connect to user-facing applications. This package
// converts [event.Event] values emitted by flow runs into AG-UI events and
// decodes AG-UI run requests into flow input.
//
// # Event Mapping
//
//   - RunStart → RUN_STARTED
//   - StepStart → STEP_STARTED
//   - StepEnd, StepSkipped → STEP_FINISHED
//   - MessageStart/Delta/End → TEXT_MESSAGE_START/CONTENT/END (the run
//     output as JSON)
//   - RunEnd → RUN_FINISHED
//   - RunError → RUN_ERROR
//
// The package does not provide transport; the api package writes the events
// as server-sent events.
//
// # Thread Safety
//
// The Mapper is NOT safe for concurrent use. Create one per run.
package agui
