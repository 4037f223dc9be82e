/*
Package server implements msgpack IPC for the autocomplete suggestion
pipeline.

The server operates on a request/response model over stdin/stdout: a
client sends one binary msgpack message per request and reads back one
binary msgpack reply. Each message carries an id field echoed in the
reply, so a client pipelining requests can match replies out of order.

A request selects between the two RPC methods with a "debug" flag:

	{"id": "req_001", "input": "san fr", "num_suggestions": 5}
	{"id": "req_002", "input": "san fr", "debug": true}

GetSuggestions (debug=false) returns the release reply — a success flag,
an enable_instant flag, and one entry per suggestion with its parent/child
annotation and query-box text already projected. GetDebugSuggestions
(debug=true) echoes the raw internal response: full Completion records
with score, algo_type and debug_info.

Grounded on suggest_methods.h/.cc (ReleaseReply/DebugReply shapes,
GetDisambiguationNameKeyFromSuggestion) and the teacher's stdin/stdout
msgpack loop in pkg/server/server.go.
*/
package server

import "github.com/room77/suggestd/pkg/suggest"

// Request is the wire shape of a single RPC call — SuggestQuery from
// spec §6 plus an explicit channel (there being no surrounding HTTP
// request here to derive one from a CGI parameter) and a debug flag
// selecting GetDebugSuggestions over GetSuggestions.
type Request struct {
	ID             string              `msgpack:"id"`
	Input          string              `msgpack:"input"`
	SelectedId     suggest.SuggestionId `msgpack:"selected_id,omitempty"`
	UserLanguage   string              `msgpack:"user_language,omitempty"`
	UserCountry    string              `msgpack:"user_country,omitempty"`
	NumSuggestions int                 `msgpack:"num_suggestions,omitempty"`
	Channel        suggest.DeviceChannel `msgpack:"channel,omitempty"`
	Debug          bool                `msgpack:"debug,omitempty"`
}

// CompleteSuggestionReply is one projected suggestion in a ReleaseReply,
// grounded on GetSuggestions::ReleaseReply::CompleteSuggestionReply.
type CompleteSuggestionReply struct {
	SrcType   suggest.EntityType `msgpack:"src_type"`
	SrcId     string             `msgpack:"src_id"`
	Latitude  float64            `msgpack:"lat"`
	Longitude float64            `msgpack:"lon"`
	Display   string             `msgpack:"display"`

	// Annotation is the aggregated string from all annotations collected
	// for the suggestion; only ever set on parent entries.
	Annotation string `msgpack:"annotation,omitempty"`
	// Child reports whether this entry is a child of another entry in
	// the same reply.
	Child bool `msgpack:"child,omitempty"`
	// Query is the text the UI should echo into the query box when this
	// entry is selected; differs from Display for child entries.
	Query string `msgpack:"query,omitempty"`
}

// ReleaseReply is the production GetSuggestions reply.
type ReleaseReply struct {
	ID            string                     `msgpack:"id"`
	Success       bool                       `msgpack:"success"`
	Suggestions   []CompleteSuggestionReply  `msgpack:"suggestions,omitempty"`
	EnableInstant bool                       `msgpack:"enable_instant"`
	Error         string                     `msgpack:"error,omitempty"`
}

// DebugReply is the GetDebugSuggestions reply: the internal response
// verbatim, for inspecting score/algo_type/debug_info per completion.
type DebugReply struct {
	ID          string              `msgpack:"id"`
	Success     bool                `msgpack:"success"`
	Completions []suggest.Completion `msgpack:"completions,omitempty"`
	Error       string              `msgpack:"error,omitempty"`
}
