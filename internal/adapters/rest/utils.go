package rest

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// WriteJSONError sends {"success": false, "message": ...} with the status.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// RespondWithJSON sends the payload as JSON.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func parseString(query url.Values, key string) string {
	return query.Get(key)
}

// parseFloat returns nil for absent or malformed values.
func parseFloat(query url.Values, key string) *float64 {
	s := query.Get(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(query url.Values, key string) int {
	v, _ := strconv.Atoi(query.Get(key))
	return v
}
