package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/arsw/blueprints/internal/api/middleware"
	"github.com/arsw/blueprints/internal/api/response"
)

// OpenAPIHandler serves the embedded OpenAPI document as JSON.
type OpenAPIHandler struct {
	source  []byte
	version string

	once     sync.Once
	document []byte
	err      error
}

// NewOpenAPIHandler returns a handler for the given YAML document. When
// version is non-empty it replaces info.version in the served document.
func NewOpenAPIHandler(source []byte, version string) *OpenAPIHandler {
	return &OpenAPIHandler{source: source, version: version}
}

func (h *OpenAPIHandler) render() ([]byte, error) {
	raw, err := yaml.YAMLToJSON(h.source)
	if err != nil {
		return nil, fmt.Errorf("converting OpenAPI YAML: %w", err)
	}
	if h.version == "" {
		return raw, nil
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("reading OpenAPI document: %w", err)
	}
	info, _ := doc["info"].(map[string]any)
	if info == nil {
		info = map[string]any{}
		doc["info"] = info
	}
	info["version"] = h.version
	return json.Marshal(doc)
}

// ServeHTTP renders the document once and writes the cached bytes.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.document, h.err = h.render()
	})

	log := middleware.Logger(r.Context())
	if h.err != nil {
		log.Error("failed to render OpenAPI document", "error", h.err)
		response.Err(w, http.StatusInternalServerError, "failed to render OpenAPI document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.document); err != nil {
		log.Error("failed to write OpenAPI response", "error", err)
	}
}
