package wehttp

import (
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/we"
)

// Contracts maps a contract name, the {type} path segment, to the service hosting it.
type Contracts map[string]we.ContractService

type HandlerOption func(service *httpService)

func Logger(log *zerolog.Logger) HandlerOption {
	return func(service *httpService) {
		service.log = log
	}
}

func NewHandler(contracts Contracts, options ...HandlerOption) http.Handler {
	service := &httpService{contracts: contracts}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(routeSpans)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Method("GET", "/{type}/{key}", service.getResource())
	r.Method("POST", "/{type}/{key}/instantiate", service.instantiate())
	r.Method("POST", "/{type}/{key}/execute", service.execute())
	r.Method("POST", "/{type}/{key}/query", service.query())

	return WithTelemetry(r, "we-http")
}

type httpService struct {
	log       *zerolog.Logger
	contracts Contracts
}

// Envelope is the body of instantiate and execute requests.
type Envelope struct {
	Sender string          `json:"sender"`
	Msg    json.RawMessage `json:"msg"`
}

type ErrorBody struct {
	Kind  we.ErrorKindName `json:"kind"`
	Error string           `json:"error"`
}

func (service *httpService) target(w http.ResponseWriter, r *http.Request) (we.ContractService, we.AggregateId, bool) {
	t := chi.URLParam(r, "type")
	key := chi.URLParam(r, "key")

	contract, ok := service.contracts[t]
	if !ok {
		service.fail(w, r, we.NotFound(t))
		return nil, we.AggregateId{}, false
	}

	return contract, we.AggregateId{Type: t, Key: key}, true
}

func (service *httpService) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contract, id, ok := service.target(w, r)
		if !ok {
			return
		}

		entity, err := contract.Load(r.Context(), id)
		if err != nil {
			service.fail(w, r, err)
			return
		}

		if !entity.Initialized() {
			service.fail(w, r, we.NotFound(id.String()))
			return
		}

		render.JSON(w, r, NewInstanceResource(entity))
	}
}

func (service *httpService) instantiate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contract, id, ok := service.target(w, r)
		if !ok {
			return
		}

		envelope, ok := service.envelope(w, r)
		if !ok {
			return
		}

		response, err := contract.Instantiate(r.Context(), id, we.MessageInfo{Sender: envelope.Sender}, envelope.Msg)
		if err != nil {
			service.fail(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response)
	}
}

func (service *httpService) execute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contract, id, ok := service.target(w, r)
		if !ok {
			return
		}

		envelope, ok := service.envelope(w, r)
		if !ok {
			return
		}

		response, err := contract.Execute(r.Context(), id, we.MessageInfo{Sender: envelope.Sender}, envelope.Msg)
		if err != nil {
			service.fail(w, r, err)
			return
		}

		render.JSON(w, r, response)
	}
}

func (service *httpService) query() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contract, id, ok := service.target(w, r)
		if !ok {
			return
		}

		body, ok := service.body(w, r)
		if !ok {
			return
		}

		result, err := contract.Query(r.Context(), id, body)
		if err != nil {
			service.fail(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(result); err != nil {
			service.log.Info().Err(err).Msg("failed to write query result")
		}
	}
}

func (service *httpService) body(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	contentType := r.Header.Get("Content-type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if mediaType != "application/json" || err != nil {
		http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
		return nil, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		service.fail(w, r, we.DecodeFailure("request body", err))
		return nil, false
	}

	return body, true
}

func (service *httpService) envelope(w http.ResponseWriter, r *http.Request) (Envelope, bool) {
	body, ok := service.body(w, r)
	if !ok {
		return Envelope{}, false
	}

	var envelope Envelope
	if err := we.Strict(body, &envelope); err != nil {
		service.fail(w, r, we.DecodeFailure("request envelope", err))
		return Envelope{}, false
	}

	return envelope, true
}

func (service *httpService) fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := we.ErrorKind(err)

	event := service.log.Info()
	if kind == we.KindInternal || kind == we.KindStoreError {
		event = service.log.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Str("kind", string(kind)).Msg("request failed")

	render.Status(r, StatusOf(kind))
	render.JSON(w, r, ErrorBody{Kind: kind, Error: err.Error()})
}

func StatusOf(kind we.ErrorKindName) int {
	switch kind {
	case we.KindDecodeError:
		return http.StatusBadRequest
	case we.KindNotFound:
		return http.StatusNotFound
	case we.KindAlreadyInstantiated, we.KindRevisionConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
