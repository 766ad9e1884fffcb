package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers the upload, health and metrics endpoints.
// The upload handler is also served under /api/{functionName} for Azure Functions custom handlers.
func NewRouter(upload *UploadHandler, functionName string, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/upload", upload.HandleUpload).Methods(http.MethodPost)
	if functionName != "" && functionName != "upload" {
		r.HandleFunc("/api/"+functionName, upload.HandleUpload).Methods(http.MethodPost)
	}

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	return r
}
