package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/common"
	"github.com/dmitrijs2005/notetake/internal/netx"
)

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := netx.WriteJSON(w, status, v); err != nil {
		s.logger.Warn(r.Context(), "write response", "request_id", RequestID(r.Context()), "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, api.ErrorResponse{Error: msg})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	}

	file, hdr, err := r.FormFile(api.UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, api.MsgFileTooLarge)
			return
		}
		s.writeError(w, r, http.StatusBadRequest, api.MsgNoFile)
		return
	}
	defer file.Close()

	res, err := s.svc.Upload(r.Context(), hdr.Filename, hdr.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, common.ErrNoFile):
		s.writeError(w, r, http.StatusBadRequest, api.MsgNoFile)
	case errors.Is(err, common.ErrUnsupportedImage):
		s.writeError(w, r, http.StatusBadRequest, api.MsgUnsupportedImage)
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, api.MsgUploadFailed)
	default:
		s.writeJSON(w, r, http.StatusOK, res)
	}
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	// a malformed body is treated like one without a public id
	var req api.DeleteImageRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	err := s.svc.DeleteImage(r.Context(), req.PublicID)
	switch {
	case errors.Is(err, common.ErrNoPublicID):
		s.writeError(w, r, http.StatusBadRequest, api.MsgNoPublicID)
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, api.MsgDeleteFailed)
	default:
		s.writeJSON(w, r, http.StatusOK, api.DeleteImageResponse{Success: true})
	}
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	var req api.ExportPDFRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	out, err := s.svc.ExportPDF(r.Context(), req.HTML)
	switch {
	case errors.Is(err, common.ErrNoHTML):
		s.writeError(w, r, http.StatusBadRequest, api.MsgNoHTML)
		return
	case err != nil:
		s.writeError(w, r, http.StatusInternalServerError, api.MsgPDFFailed)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=export.pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		s.logger.Warn(r.Context(), "write pdf", "request_id", RequestID(r.Context()), "error", err)
	}
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	reply, err := s.svc.Chat(r.Context(), req)
	switch {
	case errors.Is(err, common.ErrNoMessages):
		s.writeJSON(w, r, http.StatusBadRequest, api.ChatResponse{Reply: api.MsgNoMessages})
	case err != nil:
		s.writeJSON(w, r, http.StatusInternalServerError, api.ChatResponse{Reply: api.MsgChatFailed})
	default:
		s.writeJSON(w, r, http.StatusOK, api.ChatResponse{Reply: reply})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, api.HealthResponse{Status: "ok"})
}
