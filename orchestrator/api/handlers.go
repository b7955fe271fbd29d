// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/kostasense/software-back-sub000/connectors/base"
	"github.com/kostasense/software-back-sub000/connectors/registry"
	"github.com/kostasense/software-back-sub000/connectors/router"
	"github.com/kostasense/software-back-sub000/orchestrator/expediente"
	"github.com/kostasense/software-back-sub000/shared/logger"
)

// generateExpediente handles POST /api/v1/expedientes/{userKey}
func (s *Server) generateExpediente(w http.ResponseWriter, r *http.Request) {
	userKey := mux.Vars(r)["userKey"]
	if !allowedFor(r, userKey) {
		writeJSONError(w, "FORBIDDEN", "cannot generate another user's expediente", http.StatusForbidden)
		return
	}

	start := time.Now()
	exp, err := s.expedientes.Generate(r.Context(), userKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.InfoWithDuration("", logger.RequestID(r.Context()), "Expediente request served", time.Since(start), map[string]interface{}{
		"user":      userKey,
		"documents": len(exp.Documents),
	})
	writeJSON(w, http.StatusCreated, exp)
}

// getExpediente handles GET /api/v1/expedientes/{professorKey}/{year}
func (s *Server) getExpediente(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		writeJSONError(w, "INVALID_INPUT", "invalid year", http.StatusBadRequest)
		return
	}

	exp, err := s.expedientes.Get(r.Context(), vars["professorKey"], year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !allowedFor(r, exp.UserKey) {
		writeJSONError(w, "FORBIDDEN", "cannot read another user's expediente", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

// validateRequirements handles GET /api/v1/requirements/{userKey}
func (s *Server) validateRequirements(w http.ResponseWriter, r *http.Request) {
	userKey := mux.Vars(r)["userKey"]
	if !allowedFor(r, userKey) {
		writeJSONError(w, "FORBIDDEN", "cannot validate another user's requirements", http.StatusForbidden)
		return
	}

	cl, err := s.requirements.Validate(r.Context(), userKey)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"checklist": cl,
		"cumple":    cl.Satisfied(),
	})
}

// listTenants handles GET /api/v1/tenants
func (s *Server) listTenants(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		writeJSONError(w, "FORBIDDEN", "admin role required", http.StatusForbidden)
		return
	}

	tenants := []registry.TenantSummary{}
	if s.tenants != nil {
		list, err := s.tenants.ListTenants(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		tenants = list
	}

	connected := []router.ConnectionInfo{}
	hitRate := 0.0
	if s.connections != nil {
		connected = s.connections.Connected()
		hitRate = s.connections.HitRate()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tenants":   tenants,
		"connected": connected,
		"hit_rate":  hitRate,
	})
}

// releaseTenant handles POST /api/v1/tenants/{tenantKey}/release
func (s *Server) releaseTenant(w http.ResponseWriter, r *http.Request) {
	if !isAdmin(r) {
		writeJSONError(w, "FORBIDDEN", "admin role required", http.StatusForbidden)
		return
	}
	tenantKey := mux.Vars(r)["tenantKey"]
	if s.connections == nil {
		writeJSONError(w, "UNAVAILABLE", "no connection router", http.StatusServiceUnavailable)
		return
	}
	if err := s.connections.Release(r.Context(), tenantKey); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info(tenantKey, logger.RequestID(r.Context()), "Tenant connection released", nil)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tenant_key": tenantKey,
		"released":   true,
	})
}

// health handles GET /health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}
	if s.connections != nil {
		resp["tenant_connections"] = len(s.connections.Connected())
	}
	if s.expedientes != nil {
		if err := s.expedientes.Ping(ctx); err != nil {
			resp["status"] = "unhealthy"
			resp["error"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps the error taxonomy to HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorWithErr("", logger.RequestID(r.Context()), "Request failed", err, map[string]interface{}{
			"path": r.URL.Path,
			"code": code,
		})
	}
	writeJSONError(w, code, err.Error(), status)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, base.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, expediente.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, expediente.ErrLockTimeout):
		return http.StatusConflict, "GENERATION_IN_PROGRESS"
	case errors.Is(err, router.ErrRouterClosed):
		return http.StatusServiceUnavailable, "SHUTTING_DOWN"
	case base.IsConfiguration(err):
		return http.StatusInternalServerError, "CONFIGURATION_ERROR"
	case base.IsUnreachable(err):
		return http.StatusBadGateway, "TENANT_UNREACHABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Error encoding response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, code, message string, status int) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}
