package centraltest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/oshokin/central-publisher/internal/api/central"
	domain "github.com/oshokin/central-publisher/internal/domain/deployment"
)

// maxBundleSize bounds accepted uploads.
const maxBundleSize = 64 << 20

var (
	errDeploymentNotFound = errors.New("deployment not found")
	errNotValidated       = errors.New("deployment is not validated")
	errPublished          = errors.New("cannot drop a published deployment")
	errMissingEntry       = errors.New("missing entry")
)

// Server serves a Portal over HTTP.
type Server struct {
	*httptest.Server

	// Portal holds the deployments.
	Portal *Portal

	// authorization is the expected Authorization header.
	authorization string
}

// NewServer starts a portal accepting only the given credentials. Call Close when done.
func NewServer(credentials central.Credentials) *Server {
	s := &Server{
		Portal:        NewPortal(),
		authorization: credentials.Authorization(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.upload)
	mux.HandleFunc("GET /status", s.status)
	mux.HandleFunc("POST /published", s.promote)
	mux.HandleFunc("DELETE /deployment/{id}", s.drop)

	s.Server = httptest.NewServer(s.authenticate(mux))

	return s
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != s.authorization {
			writeError(w, http.StatusUnauthorized, "Invalid token")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxBundleSize); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	file, _, err := r.FormFile("bundle")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bundle part is required")

		return
	}

	defer func() {
		_ = file.Close()
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	publishingType, err := domain.ParsePublishingType(r.URL.Query().Get("publishingType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	d, err := s.Portal.Upload(data, r.URL.Query().Get("name"), publishingType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusCreated)
	_, _ = io.WriteString(w, d.ID.String())
}

type statusResponse struct {
	DeploymentID    string              `json:"deploymentId"`
	DeploymentName  string              `json:"deploymentName"`
	DeploymentState string              `json:"deploymentState"`
	PURLs           []string            `json:"purls"`
	Errors          map[string][]string `json:"errors"`
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	d, ok := s.Portal.Advance(domain.ID(r.URL.Query().Get("id")))
	if !ok {
		writeError(w, http.StatusNotFound, message(errDeploymentNotFound))

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{
		DeploymentID:    d.ID.String(),
		DeploymentName:  d.Name,
		DeploymentState: string(d.State),
		PURLs:           d.PURLs,
		Errors:          d.Errors,
	})
}

func (s *Server) promote(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.Portal.Promote(domain.ID(r.URL.Query().Get("id"))))
}

func (s *Server) drop(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.Portal.Drop(domain.ID(r.PathValue("id"))))
}

func (s *Server) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, errDeploymentNotFound):
		writeError(w, http.StatusNotFound, message(err))
	default:
		writeError(w, http.StatusBadRequest, message(err))
	}
}

// message renders err the way the publisher words it.
func message(err error) string {
	switch {
	case errors.Is(err, errDeploymentNotFound):
		return "Deployment not found"
	case errors.Is(err, errNotValidated):
		return "Deployment is not validated"
	case errors.Is(err, errPublished):
		return "Cannot drop a published deployment"
	default:
		return err.Error()
	}
}

func writeError(w http.ResponseWriter, code int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	body.Error.Message = text
	_ = json.NewEncoder(w).Encode(body)
}
