package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/params"
	"github.com/aakorolyova/DisasterReliefData/cmd/reliefweb/reference"
)

// Router serves the reference lists and turns JSON request descriptions
// into ReliefWeb query strings.
type Router struct {
	refs    *reference.ReferenceSet
	appName string
	log     zerolog.Logger
}

func NewRouter(refs *reference.ReferenceSet, appName string, log zerolog.Logger) *Router {
	return &Router{
		refs:    refs,
		appName: appName,
		log:     log,
	}
}

func (rt *Router) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.Use(rt.logRequests)

	r.HandleFunc("/references/countries", rt.handleCountries).Methods(http.MethodGet)
	r.HandleFunc("/references/disaster-types", rt.handleDisasterTypes).Methods(http.MethodGet)
	r.HandleFunc("/parameters", rt.handleParameters).Methods(http.MethodPost)

	return r
}

type disasterType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type parametersResponse struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func (rt *Router) handleCountries(w http.ResponseWriter, r *http.Request) {
	rt.respond(w, http.StatusOK, rt.refs.Countries.Names())
}

func (rt *Router) handleDisasterTypes(w http.ResponseWriter, r *http.Request) {
	names := rt.refs.DisasterTypes.Names()
	types := make([]disasterType, 0, len(names))
	for _, name := range names {
		dt := disasterType{Name: name}
		if rt.refs.DisasterIndex != nil {
			dt.ID = rt.refs.DisasterIndex.NameToID[name]
		}
		types = append(types, dt)
	}
	rt.respond(w, http.StatusOK, types)
}

func (rt *Router) handleParameters(w http.ResponseWriter, r *http.Request) {
	var req ParametersRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		rt.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	p, err := req.ToParameters(rt.refs, rt.appName)
	if err != nil {
		var verr *params.ValidationError
		if errors.As(err, &verr) {
			rt.respond(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field, Value: verr.Value})
			return
		}
		rt.respond(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	rt.respond(w, http.StatusOK, parametersResponse{Query: p.Encode()})
}

func (rt *Router) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		rt.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (rt *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		rt.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}
