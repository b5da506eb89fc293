package conversion

import "testing"

func TestStateConstructors(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		want     State
		wantDone bool
	}{
		{
			name:  "processing",
			state: Processing("https://youtu.be/abc"),
			want:  State{URL: "https://youtu.be/abc", Title: "Processing...", Status: StatusProcessing},
		},
		{
			name:     "complete",
			state:    Complete("/api/preview/123", "Processed Anime Intro"),
			want:     State{URL: "/api/preview/123", Title: "Processed Anime Intro", Status: StatusComplete},
			wantDone: true,
		},
		{
			name:     "failed keeps input url",
			state:    Failed("https://youtu.be/abc"),
			want:     State{URL: "https://youtu.be/abc", Title: "Error", Status: StatusError},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.state != tt.want {
				t.Errorf("state = %+v, want %+v", tt.state, tt.want)
			}
			if got := tt.state.Done(); got != tt.wantDone {
				t.Errorf("Done() = %v, want %v", got, tt.wantDone)
			}
		})
	}
}
