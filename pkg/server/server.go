package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/room77/suggestd/pkg/pipeline"
	"github.com/room77/suggestd/pkg/suggest"
)

// Server handles suggestion requests over a msgpack stdin/stdout stream.
// One Server per process; Pipeline.GetCompletions is not safe for
// concurrent use, so requests are processed one at a time in Start's
// loop (matching the teacher's single decode-dispatch-encode loop).
type Server struct {
	pipeline *pipeline.Pipeline

	decoder    *msgpack.Decoder
	writeMutex sync.Mutex
}

// NewServer returns a Server that answers every request against p.
func NewServer(p *pipeline.Pipeline) *Server {
	return &Server{
		pipeline: p,
		decoder:  msgpack.NewDecoder(bufio.NewReader(os.Stdin)),
	}
}

// Start reads requests from stdin until EOF, answering each on stdout.
func (s *Server) Start() error {
	log.Debug("starting msgpack suggestion server")
	for {
		if err := s.processRequest(); err != nil {
			if err == io.EOF {
				log.Debug("client disconnected")
				return nil
			}
			log.Warnf("request error: %v", err)
		}
	}
}

func (s *Server) processRequest() error {
	var req Request
	if err := s.decoder.Decode(&req); err != nil {
		return err
	}

	if req.Input == "" {
		return s.sendReleaseError(req.ID, "empty input")
	}

	query := suggest.Query{
		Input:          req.Input,
		SelectedId:     req.SelectedId,
		UserLanguage:   req.UserLanguage,
		UserCountry:    req.UserCountry,
		NumSuggestions: req.NumSuggestions,
	}

	response := s.pipeline.GetCompletions(query, req.Channel, req.Debug)

	if req.Debug {
		return s.sendResponse(&DebugReply{
			ID:          req.ID,
			Success:     response.Success,
			Completions: response.Completions,
		})
	}
	return s.sendResponse(projectReleaseReply(req.ID, response))
}

// projectReleaseReply implements the GetSuggestions release-reply
// projection: parent entries get an aggregated annotation respecting the
// city disambiguation-name count, child entries get child=true plus a
// query-box string. Grounded on
// GetSuggestions::operator()(..., ReleaseReply*) and FixParentSuggestion/
// FixChildSuggestion (suggest_method_utils.h's documented contract; the
// .cc defining their bodies was not retrieved, so the annotation
// shortening and child query text below are reconstructed from spec.md
// §6's wording rather than ported line for line).
func projectReleaseReply(id string, response *suggest.Response) *ReleaseReply {
	reply := &ReleaseReply{ID: id, Success: response.Success}
	if !response.Success {
		reply.Error = "Request Failed"
		return reply
	}
	reply.EnableInstant = response.EnableInstant

	byId := make(map[suggest.SuggestionId]suggest.Completion, len(response.Completions))
	nameCounts := make(map[string]int)
	for _, c := range response.Completions {
		if c.ParentId != "" || c.Suggestion == nil {
			continue
		}
		byId[c.SuggestionId] = c
		if c.Suggestion.SrcType == suggest.EntityTypeCity {
			nameCounts[disambiguationNameKey(c.Suggestion)]++
		}
	}

	reply.Suggestions = make([]CompleteSuggestionReply, 0, len(response.Completions))
	for _, c := range response.Completions {
		if c.Suggestion == nil {
			continue
		}
		entry := CompleteSuggestionReply{
			SrcType:   c.Suggestion.SrcType,
			SrcId:     c.Suggestion.SrcId,
			Latitude:  c.Suggestion.Latitude,
			Longitude: c.Suggestion.Longitude,
			Display:   c.Suggestion.Display,
		}
		if c.ParentId != "" {
			parent := byId[c.ParentId]
			fixChildSuggestion(c, parent, &entry)
		} else {
			count := nameCounts[disambiguationNameKey(c.Suggestion)]
			fixParentSuggestion(c.Suggestion, count, &entry)
		}
		reply.Suggestions = append(reply.Suggestions, entry)
	}
	return reply
}

// disambiguationNameKey builds the key used to decide whether two
// city-typed suggestions are likely to be confused: normalized name plus
// the last annotation, if any.
func disambiguationNameKey(s *suggest.CompleteSuggestion) string {
	key := s.Normalized
	if n := len(s.Annotations); n > 0 && s.Annotations[n-1] != "" {
		key += " " + s.Annotations[n-1]
	}
	return key
}

// fixParentSuggestion fills a parent reply's annotation: the full,
// comma-joined annotation list when nameCount suggestions share this
// disambiguation key (ambiguous — show everything that distinguishes
// them), otherwise just the last (most specific) annotation.
func fixParentSuggestion(s *suggest.CompleteSuggestion, nameCount int, reply *CompleteSuggestionReply) {
	if len(s.Annotations) == 0 {
		return
	}
	if nameCount > 1 {
		joined := ""
		for i, a := range s.Annotations {
			if a == "" {
				continue
			}
			if i > 0 && joined != "" {
				joined += ", "
			}
			joined += a
		}
		reply.Annotation = joined
		return
	}
	reply.Annotation = s.Annotations[len(s.Annotations)-1]
}

// fixChildSuggestion marks a child reply and fills its query-box text:
// the parent's display followed by the child's, the same concatenation
// the UI needs to re-issue a query scoped to the selected child.
func fixChildSuggestion(child, parent suggest.Completion, reply *CompleteSuggestionReply) {
	reply.Child = true
	if parent.Suggestion != nil && child.Suggestion != nil {
		reply.Query = parent.Suggestion.Display + " " + child.Suggestion.Display
	} else if child.Suggestion != nil {
		reply.Query = child.Suggestion.Display
	}
}

func (s *Server) sendReleaseError(id, message string) error {
	return s.sendResponse(&ReleaseReply{ID: id, Success: false, Error: message})
}

// sendResponse encodes response and writes it atomically to stdout.
func (s *Server) sendResponse(response interface{}) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(response); err != nil {
		return fmt.Errorf("server: encoding response: %w", err)
	}
	if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("server: writing response: %w", err)
	}
	return nil
}
