package we

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type EntryPoint string

const (
	InstantiateEntry EntryPoint = "instantiate"
	ExecuteEntry     EntryPoint = "execute"
	QueryEntry       EntryPoint = "query"
)

func (e EntryPoint) String() string {
	return string(e)
}

type Invocation struct {
	EntryPoint EntryPoint
	Info       MessageInfo
	Message    []byte
}

type Outcome struct {
	Response Response
	Result   []byte
	Writes   []SlotWrite
}

// Dispatcher runs one invocation of a contract against committed instance state. Writes are
// buffered in a Transaction and handed back for the caller to commit.
type Dispatcher struct {
	Contract Contract
}

func (d *Dispatcher) Dispatch(ctx context.Context, instance Entity[Instance], invocation Invocation) (Outcome, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, fmt.Sprintf("dispatch %s", invocation.EntryPoint))
	defer span.End()

	span.SetAttributes(
		attribute.String("contract", d.Contract.Name()),
		attribute.String("instance", instance.Aggregate.String()),
	)

	state := instance.State
	if state == nil {
		state = &Instance{}
	}

	switch invocation.EntryPoint {
	case QueryEntry:
		result, err := d.Contract.Query(ctx, state, invocation.Message)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Result: result}, nil
	case InstantiateEntry:
		return transact(state, func(tx *Transaction) (Response, error) {
			return d.Contract.Instantiate(ctx, tx, invocation.Info, invocation.Message)
		})
	case ExecuteEntry:
		return transact(state, func(tx *Transaction) (Response, error) {
			return d.Contract.Execute(ctx, tx, invocation.Info, invocation.Message)
		})
	default:
		return Outcome{}, EntryPointNotFound(invocation.EntryPoint)
	}
}

func transact(base ReadStore, run func(tx *Transaction) (Response, error)) (Outcome, error) {
	tx := NewTransaction(base)

	response, err := run(tx)
	if err != nil {
		tx.Discard()
		return Outcome{}, err
	}

	return Outcome{Response: response, Writes: tx.Writes()}, nil
}

func EntryPointNotFound(entry EntryPoint) *EntryPointNotFoundError {
	return &EntryPointNotFoundError{EntryPoint: entry}
}

type EntryPointNotFoundError struct {
	EntryPoint EntryPoint
}

func (e *EntryPointNotFoundError) Error() string {
	return fmt.Sprintf("unknown entry point: %s", e.EntryPoint)
}
