package we

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

// ContractService hosts instances of a single contract on top of an EventStore.
type ContractService interface {
	Load(ctx context.Context, id AggregateId) (Entity[Instance], error)
	Instantiate(ctx context.Context, id AggregateId, info MessageInfo, msg []byte) (Response, error)
	Execute(ctx context.Context, id AggregateId, info MessageInfo, msg []byte) (Response, error)
	Query(ctx context.Context, id AggregateId, msg []byte) ([]byte, error)
}

type ServiceOption func(service *contractService)

func WithLogger(log *zerolog.Logger) ServiceOption {
	return func(service *contractService) {
		if log != nil {
			service.log = log
		}
	}
}

func WithMetrics(metrics *Metrics) ServiceOption {
	return func(service *contractService) {
		service.metrics = metrics
	}
}

// WithAttempts bounds how many times an execute is re-run after a revision conflict.
func WithAttempts(attempts uint) ServiceOption {
	return func(service *contractService) {
		if attempts > 0 {
			service.attempts = attempts
		}
	}
}

const (
	tracerName      = "events-service"
	defaultAttempts = 5
)

func NewContractService(contract Contract, store EventStore, options ...ServiceOption) *contractService {
	service := &contractService{
		contract:   contract,
		store:      store,
		loader:     NewInstanceLoader(store),
		dispatcher: &Dispatcher{Contract: contract},
		attempts:   defaultAttempts,
	}

	for _, option := range options {
		option(service)
	}

	if service.log == nil {
		service.log = &log.Logger
	}

	return service
}

type contractService struct {
	lk         sync.Mutex
	contract   Contract
	store      EventStore
	loader     *EntityLoader[Instance]
	dispatcher *Dispatcher
	log        *zerolog.Logger
	metrics    *Metrics
	attempts   uint
}

func (s *contractService) Load(ctx context.Context, id AggregateId) (Entity[Instance], error) {
	entity, err := s.loader.Load(ctx, id)
	if err != nil {
		return Entity[Instance]{}, StoreFailure("load", err)
	}

	return entity, nil
}

func (s *contractService) Instantiate(ctx context.Context, id AggregateId, info MessageInfo, msg []byte) (response Response, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "instantiate contract")
	defer span.End()

	s.lk.Lock()
	defer s.lk.Unlock()
	defer s.observe(InstantiateEntry, id, time.Now(), &err)

	entity, err := s.Load(ctx, id)
	if err != nil {
		return Response{}, err
	}

	if entity.Initialized() || entity.State.Instantiated {
		return Response{}, &AlreadyInstantiatedError{Id: id}
	}

	outcome, err := s.dispatcher.Dispatch(ctx, entity, Invocation{EntryPoint: InstantiateEntry, Info: info, Message: msg})
	if err != nil {
		return Response{}, err
	}

	events := []DomainEvent{Instantiated{Contract: s.contract.Name(), Sender: info.Sender}}
	if len(outcome.Writes) > 0 {
		events = append(events, SlotsWritten{Writes: outcome.Writes})
	}

	if err = s.commit(ctx, entity, events); err != nil {
		if errors.Is(err, RevisionConflict) {
			return Response{}, &AlreadyInstantiatedError{Id: id}
		}
		return Response{}, err
	}

	return outcome.Response, nil
}

func (s *contractService) Execute(ctx context.Context, id AggregateId, info MessageInfo, msg []byte) (response Response, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "execute contract")
	defer span.End()

	s.lk.Lock()
	defer s.lk.Unlock()
	defer s.observe(ExecuteEntry, id, time.Now(), &err)

	err = retry.Do(
		func() error {
			entity, err := s.Load(ctx, id)
			if err != nil {
				return err
			}

			if entity.State == nil || !entity.State.Instantiated {
				return NotFound(id.String())
			}

			outcome, err := s.dispatcher.Dispatch(ctx, entity, Invocation{EntryPoint: ExecuteEntry, Info: info, Message: msg})
			if err != nil {
				return err
			}

			events := []DomainEvent{Executed{Sender: info.Sender, Attributes: outcome.Response.Attributes}}
			if len(outcome.Writes) > 0 {
				events = append(events, SlotsWritten{Writes: outcome.Writes})
			}

			if err := s.commit(ctx, entity, events); err != nil {
				return err
			}

			response = outcome.Response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(10*time.Millisecond),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, RevisionConflict)
		}),
		retry.LastErrorOnly(true),
	)

	if err != nil {
		return Response{}, err
	}

	return response, nil
}

func (s *contractService) Query(ctx context.Context, id AggregateId, msg []byte) (result []byte, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "query contract")
	defer span.End()

	s.lk.Lock()
	defer s.lk.Unlock()
	defer s.observe(QueryEntry, id, time.Now(), &err)

	entity, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	outcome, err := s.dispatcher.Dispatch(ctx, entity, Invocation{EntryPoint: QueryEntry, Message: msg})
	if err != nil {
		return nil, err
	}

	return outcome.Result, nil
}

func (s *contractService) commit(ctx context.Context, entity Entity[Instance], events []DomainEvent) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "commit change set")
	defer span.End()

	err := s.store.Publish(ctx, entity.Aggregate, Options(WithExpectedRevision(entity.Revision)), events...)
	if err == nil {
		return nil
	}

	if errors.Is(err, RevisionConflict) {
		return err
	}

	return StoreFailure("commit", err)
}

func (s *contractService) observe(entry EntryPoint, id AggregateId, start time.Time, err *error) {
	elapsed := time.Since(start)
	s.metrics.Observe(s.contract.Name(), entry, *err, elapsed)

	if *err != nil {
		s.log.Info().
			Err(*err).
			Str("entry_point", entry.String()).
			Str("instance", id.String()).
			Str("kind", string(ErrorKind(*err))).
			Dur("duration", elapsed).
			Msg("contract invocation failed")
		return
	}

	s.log.Debug().
		Str("entry_point", entry.String()).
		Str("instance", id.String()).
		Dur("duration", elapsed).
		Msg("contract invocation completed")
}
