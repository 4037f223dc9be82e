// Package cli implements a debug line-input driver (A5) for
// interactively exercising the completion pipeline from a terminal,
// printing each candidate's score, originating algorithm and debug info
// alongside the normal release fields.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/room77/suggestd/internal/utils"
	"github.com/room77/suggestd/pkg/pipeline"
	"github.com/room77/suggestd/pkg/suggest"
)

// InputHandler processes user input from stdin, driving a pipeline.Pipeline
// and printing its debug response. It accepts a channel to attribute
// requests to (desktop/mobile affects default suggestion counts) and a
// minimum prefix length below which a query is rejected outright.
type InputHandler struct {
	pipeline        *pipeline.Pipeline
	channel         suggest.DeviceChannel
	minPrefixLength int
	requestCount    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters.
func NewInputHandler(p *pipeline.Pipeline, channel suggest.DeviceChannel, minLength int, noFilter bool) *InputHandler {
	return &InputHandler{
		pipeline:        p,
		channel:         channel,
		minPrefixLength: minLength,
		noFilter:        noFilter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin.
func (h *InputHandler) Start() error {
	log.Print("suggestd debug CLI")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a query and press Enter to see the completions (Ctrl+C to exit):")

	for {
		log.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		h.handleInput(input)
	}
}

// handleInput runs a single query through the pipeline in debug mode and
// prints the resulting completions, one per line, with score/algo/debug
// columns. Every call, including a rejected one, increments requestCount.
func (h *InputHandler) handleInput(input string) {
	h.requestCount++

	if len(input) < h.minPrefixLength {
		log.Errorf("query too short: %s", input)
		return
	}

	if !h.noFilter && !utils.IsValidInput(input) {
		log.Info("no results found for query: '%s'", input)
		return
	}

	start := time.Now()
	query := suggest.Query{Input: input}
	response := h.pipeline.GetCompletions(query, h.channel, true)
	elapsed := time.Since(start)
	log.Debugf("took [ %v ] for query '%s'", elapsed, input)

	if !response.HasResults() {
		log.Warnf("no completions found for query: '%s'", input)
		return
	}

	log.Printf("found %d completions for query '%s':", len(response.Completions), input)
	for i, c := range response.Completions {
		display := "<nil>"
		if c.Suggestion != nil {
			display = c.Suggestion.Display
		}
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", display)
		log.Printf("%2d. %-40s (score: %8.2f) [%s] %s", i+1, clWord, c.Score, suggest.NamesFromAlgoType(c.AlgoType), c.DebugInfo)
	}
}
