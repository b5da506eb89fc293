package conversion

// Status is the lifecycle position of a client-side conversion
type Status string

const (
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Titles shown while a conversion is pending or after it failed
const (
	TitleProcessing = "Processing..."
	TitleError      = "Error"
)

// State is the caller's view of its single in-flight conversion.
// URL is the input URL while processing or after an error, and the preview URL once complete.
type State struct {
	URL    string
	Title  string
	Status Status
}

// Processing returns the state recorded before the conversion call
func Processing(sourceURL string) State {
	return State{URL: sourceURL, Title: TitleProcessing, Status: StatusProcessing}
}

// Complete returns the state recorded after a successful conversion
func Complete(previewURL, title string) State {
	return State{URL: previewURL, Title: title, Status: StatusComplete}
}

// Failed returns the state recorded after any failure.
// The server's error detail is deliberately not part of it.
func Failed(sourceURL string) State {
	return State{URL: sourceURL, Title: TitleError, Status: StatusError}
}

// Done returns true once the conversion reached a terminal status
func (s State) Done() bool {
	return s.Status == StatusComplete || s.Status == StatusError
}
