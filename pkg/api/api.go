package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"redactor/pkg/filter"
	"redactor/pkg/models"
)

// RedactionCountHeader carries the number of terms replaced in a response.
const RedactionCountHeader = "X-Redaction-Count"

type API struct {
	ServiceName string

	r  *mux.Router
	f  *filter.Filter
	kw MessageWriter
}

// New wires the routes. f is shared read-only by all requests; kafkaWriter
// may be nil to disable access log shipping.
func New(name string, f *filter.Filter, kafkaWriter MessageWriter) *API {
	api := API{
		ServiceName: name,
		r:           mux.NewRouter(),
		f:           f,
		kw:          kafkaWriter,
	}
	api.endpoints()

	return &api
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}

	api.r.HandleFunc("/filter", api.filterHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/check", api.checkHandler).Methods(http.MethodPost)
	api.r.HandleFunc("/health", api.healthHandler).Methods(http.MethodGet)
}

// filterHandler returns the posted comment with its text redacted.
func (api *API) filterHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var comment models.Comment
	err := json.NewDecoder(r.Body).Decode(&comment)
	if err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		log.Debugf("[filterHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	text, n := api.f.Redact(comment.Text)
	comment.Text = text

	w.Header().Set(RedactionCountHeader, strconv.Itoa(n))
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		log.Errorf("[filterHandler][%s] failed to encode response data: %v", sID, err)
		return
	}
	log.Debugf("[filterHandler][%s] %d terms redacted for %v", sID, n, r.RemoteAddr)
}

// checkHandler answers 422 when the posted comment holds a banned term.
func (api *API) checkHandler(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var comment models.Comment
	err := json.NewDecoder(r.Body).Decode(&comment)
	if err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		log.Debugf("[checkHandler][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	_, n := api.f.Redact(comment.Text)
	w.Header().Set(RedactionCountHeader, strconv.Itoa(n))
	if n > 0 {
		http.Error(w, "Comment contains banned terms", http.StatusUnprocessableEntity)
		log.Infof("[checkHandler][%s] comment %v rejected, %d banned terms", sID, comment.ID, n)
		return
	}

	w.WriteHeader(http.StatusOK)
	log.Debugf("[checkHandler][%s] comment %v accepted", sID, comment.ID)
}

func (api *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Terms: api.f.Len()}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("[healthHandler] failed to encode response data: %v", err)
	}
}
