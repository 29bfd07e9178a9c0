package httpapi

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"filesmanager/internal/common"
	"filesmanager/internal/server/models"
	"filesmanager/internal/server/services"
)

// rootParent is the wire sentinel clients send for "no parent".
const rootParent = "0"

// parentID accepts the parent reference as either a JSON string or the
// number 0, which older clients send for the root.
type parentID string

func (p *parentID) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*p = parentID(asString)
		return nil
	}
	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err != nil {
		return err
	}
	if asNumber == 0 {
		*p = rootParent
		return nil
	}
	*p = parentID(strconv.FormatFloat(asNumber, 'f', -1, 64))
	return nil
}

type createFileRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	ParentID    parentID `json:"parentId"`
	IsPublished bool     `json:"isPublished"`
	Data        string   `json:"data"`
}

type fileResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	IsPublished bool   `json:"isPublished"`
	ParentID    string `json:"parentId"`
}

func toFileResponse(rec *models.FileRecord) fileResponse {
	parent := rec.ParentID
	if parent == "" {
		parent = rootParent
	}
	return fileResponse{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Name:        rec.Name,
		Type:        rec.Kind,
		IsPublished: rec.IsPublished,
		ParentID:    parent,
	}
}

// requireUser resolves the session token or writes a 401.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := s.auth.ResolveUser(r.Context(), r.Header.Get(tokenHeader))
	if err != nil {
		s.writeError(r.Context(), w, err)
		return "", false
	}
	return userID, true
}

// optionalUser resolves the token when present; anonymous callers get an
// empty user id and see only published records.
func (s *Server) optionalUser(r *http.Request) string {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		return ""
	}
	userID, err := s.auth.ResolveUser(r.Context(), token)
	if err != nil {
		return ""
	}
	return userID
}

func (s *Server) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req createFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(ctx, w, common.ErrorInvalidPayload)
		return
	}

	parent := string(req.ParentID)
	if parent == rootParent {
		parent = ""
	}

	rec, err := s.files.Create(ctx, userID, services.CreateFileInput{
		Name:        req.Name,
		Kind:        req.Type,
		ParentID:    parent,
		IsPublished: req.IsPublished,
		Content:     req.Data,
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusCreated, toFileResponse(rec))
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var parent *string
	if raw := r.URL.Query().Get("parentId"); raw != "" {
		filter := raw
		if filter == rootParent {
			filter = ""
		}
		parent = &filter
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page = n
		}
	}

	// limit 0 means the server default.
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recs, err := s.files.List(ctx, userID, parent, page, limit)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	out := make([]fileResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toFileResponse(rec))
	}
	s.writeJSON(ctx, w, http.StatusOK, out)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := s.files.GetByID(ctx, s.optionalUser(r), r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	s.writeJSON(ctx, w, http.StatusOK, toFileResponse(rec))
}

func (s *Server) handlePublish(published bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, ok := s.requireUser(w, r)
		if !ok {
			return
		}

		rec, err := s.files.SetPublished(ctx, userID, r.PathValue("id"), published)
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}
		s.writeJSON(ctx, w, http.StatusOK, toFileResponse(rec))
	}
}

func (s *Server) handleGetFileData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, data, err := s.files.GetData(ctx, s.optionalUser(r), r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(rec.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.log.Error(ctx, "writing file data", "error", err)
	}
}
