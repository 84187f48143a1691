// Package modelapi exposes the loaded model over HTTP: a health check,
// artifact metadata, the input prototype, a prototype-checked prediction
// endpoint, and the docs page the dashboard's API tab embeds.
package modelapi

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/harbor-data/model.report/internal/board"
	"github.com/harbor-data/model.report/internal/httputil"
	"github.com/harbor-data/model.report/internal/model"
)

// Server serves one loaded model artifact.
type Server struct {
	scorer *model.Scorer
	meta   board.Meta
}

// NewServer creates a model API server for the given artifact.
func NewServer(scorer *model.Scorer, meta board.Meta) *Server {
	return &Server{scorer: scorer, meta: meta}
}

// ServeMux returns the model API routes.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/metadata", s.handleMetadata)
	mux.HandleFunc("/prototype", s.handlePrototype)
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/__docs__", s.handleDocs)
	return mux
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"ping": "pong"})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	positive, negative := s.scorer.Labels()
	httputil.WriteJSONOK(w, map[string]interface{}{
		"name":        s.meta.Name,
		"version":     s.meta.Version,
		"created":     board.FormatCreatedStamp(s.meta.Created),
		"description": s.meta.Description,
		"labels":      []string{negative, positive},
	})
}

func (s *Server) handlePrototype(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.scorer.Prototype())
}

// predictRequest carries rows keyed by prototype field name, so a request
// with a renamed or missing feature fails validation rather than silently
// shifting columns.
type predictRequest struct {
	Rows []map[string]float64 `json:"rows"`
}

type prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Rows) == 0 {
		httputil.BadRequest(w, "no rows to predict")
		return
	}

	proto := s.scorer.Prototype()
	predictions := make([]prediction, len(req.Rows))
	for i, row := range req.Rows {
		features, err := featuresFor(proto, row)
		if err != nil {
			httputil.Unprocessable(w, fmt.Sprintf("row %d: %v", i, err))
			return
		}
		label, score, err := s.scorer.Predict(features)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("row %d: %v", i, err))
			return
		}
		predictions[i] = prediction{Label: label, Score: score}
	}

	httputil.WriteJSONOK(w, map[string][]prediction{"predictions": predictions})
}

// featuresFor checks one request row against the prototype and returns the
// feature vector in prototype order.
func featuresFor(proto model.Prototype, row map[string]float64) ([]float64, error) {
	if len(row) != len(proto) {
		return nil, fmt.Errorf("got %d fields, prototype declares %d", len(row), len(proto))
	}
	features := make([]float64, len(proto))
	for i, f := range proto {
		v, ok := row[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing prototype field %q", f.Name)
		}
		features[i] = v
	}
	return features, nil
}

// handleDocs renders a plain HTML description of the API. This is the page
// the dashboard's API tab iframes.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	proto := s.scorer.Prototype()
	var fields strings.Builder
	for _, f := range proto {
		fmt.Fprintf(&fields, "<tr><td><code>%s</code></td><td>%s</td></tr>",
			html.EscapeString(f.Name), html.EscapeString(f.Kind))
	}

	doc := fmt.Sprintf(docsHTML,
		html.EscapeString(s.meta.Name),
		html.EscapeString(s.meta.Description),
		html.EscapeString(s.meta.Version),
		fields.String(),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

const docsHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%[1]s API</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 24px; color: #1f2933; }
  code, pre { background: #f1f3f5; border-radius: 4px; padding: 2px 6px; }
  pre { padding: 12px; overflow-x: auto; }
  table { border-collapse: collapse; }
  td, th { border: 1px solid #e4e7eb; padding: 6px 12px; text-align: left; }
</style>
</head>
<body>
<h1>%[1]s</h1>
<p>%[2]s (version <code>%[3]s</code>)</p>

<h2>Endpoints</h2>
<ul>
  <li><code>GET /ping</code> — health check</li>
  <li><code>GET /metadata</code> — artifact metadata</li>
  <li><code>GET /prototype</code> — input schema</li>
  <li><code>POST /predict</code> — score rows</li>
</ul>

<h2>Input prototype</h2>
<table><tr><th>field</th><th>kind</th></tr>%[4]s</table>

<h2>Example</h2>
<pre>curl -X POST -d '{"rows": [{...}]}' /predict</pre>
</body>
</html>
`
