package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	errs "github.com/jrsteele09/go-pkce-service/internal/errors"
	"github.com/jrsteele09/go-pkce-service/pkce"
	"github.com/jrsteele09/go-pkce-service/verifierstore"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 4 << 10
)

type createPairRequest struct {
	Length *int `json:"length,omitempty"`
}

type createPairResponse struct {
	AttemptID  string    `json:"attempt_id"`
	Challenge  string    `json:"challenge"`
	Method     string    `json:"method"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type redeemPairResponse struct {
	AttemptID string `json:"attempt_id"`
	Verifier  string `json:"verifier"`
	Challenge string `json:"challenge"`
	Method    string `json:"method"`
}

type verifyRequest struct {
	Challenge string `json:"challenge"`
	Method    string `json:"method"`
	Verifier  string `json:"verifier"`
}

// CreatePairHandler generates a verifier, stores it for the attempt and returns
// the challenge to send with the authorization request.
func (s *Server) CreatePairHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPairRequest
		if err := decodeJSONBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		length := s.config.GetVerifierLength()
		if req.Length != nil {
			length = *req.Length
		}
		if length < pkce.MinVerifierLength || length > pkce.MaxVerifierLength {
			s.writeError(w, r, fmt.Errorf("%w: %d (must be between %d and %d)",
				errs.ErrInvalidVerifierLength, length, pkce.MinVerifierLength, pkce.MaxVerifierLength))
			return
		}

		pair, err := s.generator.NewPair(r.Context(), length)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		now := s.now().UTC()
		entry := &verifierstore.Entry{
			AttemptID: uuid.NewString(),
			Verifier:  pair.Verifier,
			Challenge: pair.Challenge,
			Method:    pair.Method,
			CreatedAt: now,
			ExpiresAt: now.Add(s.config.GetVerifierTTL()),
		}
		if err := s.verifiers.Upsert(r.Context(), verifierstore.Key(s.storageKey, entry.AttemptID), entry); err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, createPairResponse{
			AttemptID:  entry.AttemptID,
			Challenge:  string(entry.Challenge),
			Method:     string(entry.Method),
			StorageKey: s.storageKey,
			ExpiresAt:  entry.ExpiresAt,
		})
	}
}

// RedeemPairHandler hands out the stored verifier once, for the token exchange.
func (s *Server) RedeemPairHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		attemptID := r.PathValue("attempt_id")
		if _, err := uuid.Parse(attemptID); err != nil {
			s.writeError(w, r, errs.Wrapf(errs.ErrInvalidRequest, "attempt_id %q", attemptID))
			return
		}

		entry, err := s.verifiers.Take(r.Context(), verifierstore.Key(s.storageKey, attemptID))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, redeemPairResponse{
			AttemptID: entry.AttemptID,
			Verifier:  string(entry.Verifier),
			Challenge: string(entry.Challenge),
			Method:    string(entry.Method),
		})
	}
}

// VerifyHandler checks a verifier against the challenge sent up front.
func (s *Server) VerifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		if err := decodeJSONBody(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := pkce.ValidateChallengeParams(req.Challenge, req.Method, true); err != nil {
			s.writeError(w, r, fmt.Errorf("%w: %w", errs.ErrInvalidRequest, err))
			return
		}
		method, err := pkce.ParseCodeMethod(req.Method)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if method == pkce.CodeMethodPlain && !s.config.GetAllowPlainMethod() {
			s.writeError(w, r, errs.Wrapf(errs.ErrUnsupportedMethod, "plain method is disabled"))
			return
		}
		if err := pkce.ValidateVerifier(pkce.Verifier(req.Verifier)); err != nil {
			s.writeError(w, r, err)
			return
		}

		if err := s.generator.Verify(r.Context(), method, pkce.Challenge(req.Challenge), pkce.Verifier(req.Verifier)); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errs.Wrapf(errs.ErrInvalidRequest, "malformed JSON body: %v", err)
	}
	return nil
}

// writeError maps service errors to OAuth style JSON errors. Crypto and
// configuration failures are deployment faults and are never retried here.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, description := http.StatusInternalServerError, "server_error", "internal error"

	switch {
	case errs.Is(err, errs.ErrCryptoUnavailable):
		code, description = "crypto_unavailable", "cannot start sign-in"
	case errs.Is(err, errs.ErrConfigurationMissing):
		code, description = "configuration_missing", "cannot start sign-in"
	case errs.Is(err, errs.ErrInvalidRequest),
		errs.Is(err, errs.ErrInvalidVerifierLength),
		errs.Is(err, errs.ErrInvalidCodeVerifier),
		errs.Is(err, errs.ErrUnsupportedMethod):
		status, code, description = http.StatusBadRequest, "invalid_request", err.Error()
	case errs.Is(err, errs.ErrInvalidCodeChallenge):
		status, code, description = http.StatusBadRequest, "invalid_grant", err.Error()
	case errs.Is(err, errs.ErrNotFound):
		status, code, description = http.StatusNotFound, "not_found", "unknown or expired attempt"
	}

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("request_id", requestID(r)).Int("status", status).Msg(code)

	writeJSONError(w, code, description, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
