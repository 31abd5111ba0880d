package media

import (
	"context"
	"errors"
)

// ErrTranscriptionUnavailable is returned by the default transcriber.
var ErrTranscriptionUnavailable = errors.New("nenhum mecanismo de transcrição configurado")

// NoSpeech is the text reported when audio contains nothing recognisable.
const NoSpeech = "(sem áudio reconhecível)"

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// TranscriberFunc adapts a function to Transcriber.
type TranscriberFunc func(ctx context.Context, filename string, audio []byte) (string, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	return f(ctx, filename, audio)
}

// Unavailable is the transcriber used when no speech engine is wired in.
var Unavailable Transcriber = TranscriberFunc(func(context.Context, string, []byte) (string, error) {
	return "", ErrTranscriptionUnavailable
})
