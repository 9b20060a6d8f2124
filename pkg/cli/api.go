package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/willckim/Purelytics/pkg/data"
	"github.com/willckim/Purelytics/pkg/score"
)

const maxRequestBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryParamInt(r *http.Request, key string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func scoreAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, err := score.ParseExtraction(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			if errors.Is(err, score.ErrInvalidExtraction) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("failed to read extraction", "error", err)
			writeError(w, http.StatusBadRequest, "error reading request body")
			return
		}

		rep := newReport(cfg.Ranker, x, cfg.Engine.ScoreExtraction(x))

		if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
			if err := saveReport(cfg.DB, rep); err != nil {
				slog.Error("failed to save report", "error", err)
				writeError(w, http.StatusInternalServerError, "error saving report")
				return
			}
		}

		writeJSON(w, http.StatusOK, rep)
	}
}

func matchAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names := r.URL.Query()["name"]
		if len(names) == 0 {
			writeError(w, http.StatusBadRequest, "name parameter required")
			return
		}
		writeJSON(w, http.StatusOK, resolveNames(cfg, names))
	}
}

func alternativesAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		s, err := queryParamInt(r, "score", 0)
		if err != nil || s < 0 || s > 100 {
			writeError(w, http.StatusBadRequest, "score must be an integer between 0 and 100")
			return
		}
		writeJSON(w, http.StatusOK, cfg.Ranker.Rank(category, s))
	}
}

func historyListAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryParamInt(r, "limit", data.ScanListLimitDefault)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}

		list, err := data.ListScans(cfg.DB, limit)
		if err != nil {
			slog.Error("failed to list scans", "error", err)
			writeError(w, http.StatusInternalServerError, "error listing scans")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func historyGetAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := data.GetScan(cfg.DB, r.PathValue("id"))
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				writeError(w, http.StatusNotFound, "scan not found")
				return
			}
			slog.Error("failed to get scan", "error", err)
			writeError(w, http.StatusInternalServerError, "error getting scan")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func stateAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state, err := data.GetDataState(cfg.DB)
		if err != nil {
			slog.Error("failed to get data state", "error", err)
			writeError(w, http.StatusInternalServerError, "error getting data state")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
