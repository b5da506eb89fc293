package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anime-ringtone/domain/conversion"
)

type stubAPI struct {
	resp    *Response
	err     error
	during  func()
	sources []string
}

func (s *stubAPI) Convert(ctx context.Context, sourceURL string) (*Response, error) {
	s.sources = append(s.sources, sourceURL)
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestConverter_Success(t *testing.T) {
	api := &stubAPI{resp: &Response{PreviewURL: "/api/preview/abc", Title: "Processed Anime Intro"}}
	var transitions []conversion.State
	c := NewConverter(api, func(s conversion.State) { transitions = append(transitions, s) })

	var midState conversion.State
	var midInFlight bool
	api.during = func() {
		midState = c.State()
		midInFlight = c.IsConverting()
	}

	state, err := c.Convert(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)

	assert.Equal(t, conversion.Processing("https://youtu.be/abc"), midState)
	assert.True(t, midInFlight)

	want := conversion.State{URL: "/api/preview/abc", Title: "Processed Anime Intro", Status: conversion.StatusComplete}
	assert.Equal(t, want, state)
	assert.Equal(t, want, c.State())
	assert.False(t, c.IsConverting())
	assert.Equal(t, []conversion.State{conversion.Processing("https://youtu.be/abc"), want}, transitions)
}

func TestConverter_Failure(t *testing.T) {
	apiErr := errors.New("server returned 400")
	c := NewConverter(&stubAPI{err: apiErr}, nil)

	state, err := c.Convert(context.Background(), "not-a-url")
	require.ErrorIs(t, err, apiErr)

	want := conversion.State{URL: "not-a-url", Title: conversion.TitleError, Status: conversion.StatusError}
	assert.Equal(t, want, state)
	assert.Equal(t, want, c.State())
	assert.False(t, c.IsConverting())
	assert.True(t, c.State().Done())
}

func TestConverter_SecondCallOverwrites(t *testing.T) {
	api := &stubAPI{err: errors.New("boom")}
	c := NewConverter(api, nil)

	_, err := c.Convert(context.Background(), "https://youtu.be/first")
	require.Error(t, err)

	api.err = nil
	api.resp = &Response{PreviewURL: "/api/preview/second", Title: "t"}
	state, err := c.Convert(context.Background(), "https://youtu.be/second")
	require.NoError(t, err)

	assert.Equal(t, "/api/preview/second", state.URL)
	assert.Equal(t, []string{"https://youtu.be/first", "https://youtu.be/second"}, api.sources)
}

func TestConverter_InitialState(t *testing.T) {
	c := NewConverter(&stubAPI{}, nil)
	assert.Equal(t, conversion.State{}, c.State())
	assert.False(t, c.IsConverting())
	assert.False(t, c.State().Done())
}
