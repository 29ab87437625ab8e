// Package chat implements the response-acquisition and rendering pipeline
// of the PBChatbot client: request construction with pluggable
// authentication, a retry controller with bounded exponential backoff,
// response-format detection (event-stream vs. JSON vs. plain text),
// incremental stream decoding, and a synthetic typing playback that gives
// streamed and non-streamed replies the same rendering contract.
//
// The package owns no UI state. It renders exclusively through the
// RenderTarget handle it is given, one exchange at a time, and synthesizes
// a diagnostics report on failure paths.
package chat
