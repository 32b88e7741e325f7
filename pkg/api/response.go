package api

import (
	"encoding/json"
	"net/http"
)

// Response 統一成功回應格式
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ResponseError 統一錯誤回應格式
type ResponseError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func SuccessJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func CreatedJSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

func ErrorJSON(w http.ResponseWriter, status int, code string, message string, details any) {
	writeJSON(w, status, ResponseError{
		Success: false,
		Error:   code,
		Message: message,
		Details: details,
	})
}
