package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"letterbox/internal/letter"
	"letterbox/services"
)

const requestTimeout = 5 * time.Second

type LetterHandler struct {
	letterService *services.LetterService
	log           *zap.Logger
}

func NewLetterHandler(letterService *services.LetterService, log *zap.Logger) *LetterHandler {
	return &LetterHandler{
		letterService: letterService,
		log:           log,
	}
}

// Register mounts the letter routes on r. reactMiddleware wraps only the
// reaction endpoint.
func (h *LetterHandler) Register(r *mux.Router, reactMiddleware ...mux.MiddlewareFunc) {
	r.HandleFunc("/letters", h.GetLetters).Methods(http.MethodGet)
	r.HandleFunc("/letters", h.CreateLetter).Methods(http.MethodPost)

	var react http.Handler = http.HandlerFunc(h.ReactToLetter)
	for i := len(reactMiddleware) - 1; i >= 0; i-- {
		react = reactMiddleware[i](react)
	}
	r.Handle("/letters/react", react).Methods(http.MethodPost)
}

func (h *LetterHandler) CreateLetter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req letter.CreateLetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.letterService.SendLetter(ctx, req); err != nil {
		h.log.Error("failed to send letter", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to send letter")
		return
	}

	respondWithJSON(w, http.StatusOK, letter.CreateLetterResponse{Success: true})
}

func (h *LetterHandler) GetLetters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	letters, err := h.letterService.GetArrivedLetters(ctx)
	if err != nil {
		h.log.Error("failed to fetch letters", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch letters")
		return
	}

	if letters == nil {
		letters = []letter.Letter{}
	}
	respondWithJSON(w, http.StatusOK, letters)
}

func (h *LetterHandler) ReactToLetter(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req letter.ReactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request parameters")
		return
	}

	fireCount, err := h.letterService.ReactToLetter(ctx, req)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, letter.ReactResponse{Success: true, FireCount: fireCount})
	case errors.Is(err, letter.ErrMissingID), errors.Is(err, letter.ErrInvalidReaction):
		respondWithError(w, http.StatusBadRequest, "Invalid request parameters")
	case errors.Is(err, letter.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Letter not found")
	default:
		h.log.Error("failed to process reaction", zap.String("letter_id", req.ID), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to process reaction")
	}
}
