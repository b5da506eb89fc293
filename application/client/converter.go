package client

import (
	"context"
	"sync"

	"anime-ringtone/domain/conversion"
)

// Response is what the conversion API returns on success
type Response struct {
	PreviewURL string
	Title      string
}

// ConvertAPI submits a conversion request to a server
type ConvertAPI interface {
	Convert(ctx context.Context, sourceURL string) (*Response, error)
}

// Converter tracks the caller's single in-flight conversion.
// A new call overwrites the state of the previous one.
type Converter struct {
	api ConvertAPI

	mu       sync.RWMutex
	state    conversion.State
	inFlight bool
	onChange func(conversion.State)
}

// NewConverter creates a new Converter.
// onChange, when set, is called after every state transition.
func NewConverter(api ConvertAPI, onChange func(conversion.State)) *Converter {
	return &Converter{api: api, onChange: onChange}
}

// Convert submits sourceURL and records the processing, complete or error state.
// Server error detail is not kept in the state; the returned error carries it.
func (c *Converter) Convert(ctx context.Context, sourceURL string) (conversion.State, error) {
	c.set(conversion.Processing(sourceURL), true)

	resp, err := c.api.Convert(ctx, sourceURL)
	if err != nil {
		failed := conversion.Failed(sourceURL)
		c.set(failed, false)
		return failed, err
	}

	done := conversion.Complete(resp.PreviewURL, resp.Title)
	c.set(done, false)
	return done, nil
}

// State returns the most recent conversion state
func (c *Converter) State() conversion.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConverting reports whether a conversion call is outstanding
func (c *Converter) IsConverting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inFlight
}

func (c *Converter) set(state conversion.State, inFlight bool) {
	c.mu.Lock()
	c.state = state
	c.inFlight = inFlight
	c.mu.Unlock()

	if c.onChange != nil {
		c.onChange(state)
	}
}
