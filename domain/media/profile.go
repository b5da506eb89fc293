package media

import (
	"fmt"
	"regexp"
)

// Default transcode profile values
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	DefaultBitrate    = "256k"
	DefaultFormat     = "mp3"
)

// DefaultMaxLength caps the clip at ten seconds
var DefaultMaxLength = Timestamp{Seconds: 10}

// bitrateRegex matches ffmpeg bitrate values such as 128k or 320000
var bitrateRegex = regexp.MustCompile(`^\d+[kKmM]?$`)

// TranscodeProfile is the fixed parameter set applied to every conversion
type TranscodeProfile struct {
	Start      Timestamp // Offset into the source where the clip begins
	MaxLength  Timestamp // Maximum clip length
	SampleRate int
	Channels   int
	Bitrate    string
	Format     string
}

// DefaultProfile returns the ringtone profile: ten seconds of 44.1kHz stereo MP3 at 256k
func DefaultProfile() TranscodeProfile {
	return TranscodeProfile{
		MaxLength:  DefaultMaxLength,
		SampleRate: DefaultSampleRate,
		Channels:   DefaultChannels,
		Bitrate:    DefaultBitrate,
		Format:     DefaultFormat,
	}
}

// Validate checks that the profile can be handed to the engine
func (p TranscodeProfile) Validate() error {
	if p.MaxLength.IsZero() {
		return fmt.Errorf("max length must be greater than zero")
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", p.SampleRate)
	}
	if p.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", p.Channels)
	}
	if !bitrateRegex.MatchString(p.Bitrate) {
		return fmt.Errorf("invalid bitrate %q", p.Bitrate)
	}
	if p.Format == "" {
		return fmt.Errorf("output format is required")
	}
	return nil
}

// ContentType returns the MIME type of the profile's output container
func (p TranscodeProfile) ContentType() string {
	switch p.Format {
	case "mp3":
		return MimeTypeMP3
	case "ipod", "m4a", "mp4":
		return MimeTypeM4A
	case "wav":
		return MimeTypeWAV
	case "ogg":
		return MimeTypeOGG
	default:
		return MimeTypeMP3
	}
}

// MIME type constants for the supported output containers
const (
	MimeTypeMP3 = "audio/mpeg"
	MimeTypeM4A = "audio/mp4"
	MimeTypeWAV = "audio/wav"
	MimeTypeOGG = "audio/ogg"
)
