package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Tyrowin/relaychat/internal/media"
	"github.com/Tyrowin/relaychat/internal/storage"
)

// attachmentForm holds the text fields sent alongside an uploaded file.
type attachmentForm struct {
	Username string `validate:"required,max=32,excludesall=:"`
	Room     string `validate:"max=64"`
}

type uploadResponse struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type transcribeResponse struct {
	Text    string `json:"text"`
	MediaID string `json:"media_id"`
	URL     string `json:"url"`
}

func mediaURL(id string) string {
	return "/media/" + id
}

// UploadMediaHandler stores a multipart "file" and, when a room is given,
// announces it there.
func (s *Server) UploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	form := attachmentForm{
		Username: formValue(r, "username", AnonymousUser),
		Room:     r.FormValue("room"),
	}
	if err := s.validate.Struct(form); err != nil {
		http.Error(w, "Invalid username or room", http.StatusBadRequest)
		return
	}

	mimeType, kind := media.Detect(filename, data)
	m := &storage.Media{
		Filename:  filename,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		Data:      data,
		CreatedBy: form.Username,
		Kind:      kind,
	}
	if err := s.store.SaveMedia(r.Context(), m); err != nil {
		s.log.Error("Saving media failed", "user", form.Username, "file", filename, "error", err)
		http.Error(w, "Failed to store media", http.StatusInternalServerError)
		return
	}

	if form.Room != "" {
		s.router.Announce(RoomID(form.Room),
			fmt.Sprintf("[Mídia] <%s> enviou '%s' (%s): %s", form.Username, filename, kind, mediaURL(m.ID)))
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		ID:   m.ID,
		URL:  mediaURL(m.ID),
		Kind: kind,
		Name: filename,
		Size: m.Size,
	})
}

// GetMediaHandler serves a stored blob with its mime type.
func (s *Server) GetMediaHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	m, err := s.store.GetMedia(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Media não encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("Loading media failed", "id", id, "error", err)
		http.Error(w, "Failed to load media", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", m.MimeType)
	_, _ = w.Write(m.Data)
}

// TranscribeAudioHandler stores an audio upload, transcribes it and announces
// the transcript to the room.
func (s *Server) TranscribeAudioHandler(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	form := attachmentForm{
		Username: formValue(r, "username", AnonymousUser),
		Room:     formValue(r, "room", s.cfg.DefaultRoom),
	}
	if err := s.validate.Struct(form); err != nil {
		http.Error(w, "Invalid username or room", http.StatusBadRequest)
		return
	}

	text, err := s.transcriber.Transcribe(r.Context(), filename, data)
	switch {
	case err != nil:
		s.log.Warn("Transcription failed", "user", form.Username, "file", filename, "error", err)
		text = "Falha na transcrição: " + err.Error()
	case strings.TrimSpace(text) == "":
		text = media.NoSpeech
	}

	mimeType, _ := media.Detect(filename, data)
	m := &storage.Media{
		Filename:  filename,
		MimeType:  mimeType,
		Size:      int64(len(data)),
		Data:      data,
		CreatedBy: form.Username,
		Kind:      storage.KindAudio,
	}
	if err := s.store.SaveMedia(r.Context(), m); err != nil {
		s.log.Error("Saving audio failed", "user", form.Username, "file", filename, "error", err)
		http.Error(w, "Failed to store media", http.StatusInternalServerError)
		return
	}

	s.router.Announce(RoomID(form.Room), fmt.Sprintf("[Transcrição] <%s> '%s': %s", form.Username, filename, text))

	writeJSON(w, http.StatusOK, transcribeResponse{Text: text, MediaID: m.ID, URL: mediaURL(m.ID)})
}

// readUpload parses the multipart body and returns the "file" part. It writes
// the error response itself and reports false on failure.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
			return "", nil, false
		}
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file", http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return "", nil, false
	}
	return header.Filename, data, true
}

func formValue(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
