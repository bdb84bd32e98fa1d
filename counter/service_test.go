package counter_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/we"
)

type test = func(t *testing.T)

type fixture struct {
	store   *memory.EventStore
	service we.ContractService
	client  *counter.Client
}

func newFixture() fixture {
	store := memory.NewEventStore()
	service := we.NewContractService(counter.Contract(), store)

	return fixture{store: store, service: service, client: counter.NewClient(service)}
}

var fake = faker.New()

func address() string {
	return fake.UUID().V4()
}

func instantiateThenQuery(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()

		for _, value := range []uint64{0, 7, math.MaxUint64} {
			addr := address()
			_, err := f.client.Instantiate(ctx, addr, "creator", value)
			require.NoError(t, err)

			current, err := f.client.Value(ctx, addr)
			require.NoError(t, err)
			assert.Equal(t, value, current)
		}
	}
}

func incrementsThreeTimes(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Instantiate(ctx, addr, "creator", 0)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			_, err := f.client.Increment(ctx, addr, "poker")
			require.NoError(t, err)
		}

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), current)

		entity, err := f.service.Load(ctx, counter.InstanceId(addr))
		require.NoError(t, err)
		assert.Equal(t, uint64(3), entity.State.Executions)
		assert.Equal(t, "creator", entity.State.Creator)
		assert.Equal(t, counter.Name, entity.State.Contract)
	}
}

func resetsFromAnySender(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Instantiate(ctx, addr, "creator", 0)
		require.NoError(t, err)

		response, err := f.client.Reset(ctx, addr, "stranger", 5)
		require.NoError(t, err)

		sender, _ := response.Attribute("sender")
		assert.Equal(t, "stranger", sender)

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), current)
	}
}

func overflowIsDiscarded(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Instantiate(ctx, addr, "creator", math.MaxUint64)
		require.NoError(t, err)

		response, err := f.client.Increment(ctx, addr, "poker")
		require.NoError(t, err)

		value, _ := response.Attribute("counter")
		assert.Equal(t, "18446744073709551615", value)

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(math.MaxUint64), current)
	}
}

func queryBeforeInstantiate(f fixture) test {
	return func(t *testing.T) {
		_, err := f.client.Value(context.Background(), address())
		assert.True(t, we.IsNotFound(err))
		assert.Equal(t, we.KindNotFound, we.ErrorKind(err))
	}
}

func executeBeforeInstantiate(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Reset(ctx, addr, "stranger", 5)
		assert.True(t, we.IsNotFound(err))

		entity, err := f.service.Load(ctx, counter.InstanceId(addr))
		require.NoError(t, err)
		assert.False(t, entity.Initialized())
	}
}

func rejectsSecondInstantiate(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Instantiate(ctx, addr, "creator", 1)
		require.NoError(t, err)

		_, err = f.client.Instantiate(ctx, addr, "creator", 2)
		var exists *we.AlreadyInstantiatedError
		require.ErrorAs(t, err, &exists)
		assert.Equal(t, counter.InstanceId(addr), exists.Id)

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), current)
	}
}

func failedExecuteCommitsNothing(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()
		id := counter.InstanceId(addr)

		_, err := f.client.Instantiate(ctx, addr, "creator", 1)
		require.NoError(t, err)

		before, err := f.service.Load(ctx, id)
		require.NoError(t, err)

		_, err = f.service.Execute(ctx, id, we.MessageInfo{Sender: "poker"}, []byte(`{"decrement":{}}`))
		assert.Equal(t, we.KindDecodeError, we.ErrorKind(err))

		after, err := f.service.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, before.Revision, after.Revision)
	}
}

func rejectsOutOfRangeValues(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()
		id := counter.InstanceId(addr)
		info := we.MessageInfo{Sender: "creator"}

		_, err := f.service.Instantiate(ctx, id, info, []byte(`{"counter_value":18446744073709551616}`))
		assert.Equal(t, we.KindDecodeError, we.ErrorKind(err))

		_, err = f.client.Instantiate(ctx, addr, "creator", 3)
		require.NoError(t, err)

		for _, msg := range []string{
			`{"reset":{"counter_value":18446744073709551617}}`,
			`{"reset":{"counter_value":1e3}}`,
			`{"RESET":{"counter_value":9}}`,
			`{"reset":{"counter_value":1,"counter_value":2}}`,
		} {
			_, err := f.service.Execute(ctx, id, info, []byte(msg))
			assert.Equal(t, we.KindDecodeError, we.ErrorKind(err), msg)
		}

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), current)
	}
}

func queriesNeverPublish(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()
		id := counter.InstanceId(addr)

		_, err := f.client.Instantiate(ctx, addr, "creator", 1)
		require.NoError(t, err)

		before, err := f.store.Load(ctx, id)
		require.NoError(t, err)

		_, err = f.client.Value(ctx, addr)
		require.NoError(t, err)

		after, err := f.store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, len(before.Events), len(after.Events))
	}
}

func publishesChangeSets(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()
		id := counter.InstanceId(addr)

		_, err := f.client.Instantiate(ctx, addr, "creator", 1)
		require.NoError(t, err)
		_, err = f.client.Increment(ctx, addr, "poker")
		require.NoError(t, err)

		aggregate, err := f.store.Load(ctx, id)
		require.NoError(t, err)

		types := make([]we.EventType, len(aggregate.Events))
		for i, event := range aggregate.Events {
			types[i] = event.EventType
		}

		assert.Equal(t, []we.EventType{
			we.InstantiatedEvent,
			we.SlotsWrittenEvent,
			we.ExecutedEvent,
			we.SlotsWrittenEvent,
		}, types)
	}
}

func serializesConcurrentIncrements(f fixture) test {
	return func(t *testing.T) {
		ctx := context.Background()
		addr := address()

		_, err := f.client.Instantiate(ctx, addr, "creator", 0)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.client.Increment(ctx, addr, "poker")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		current, err := f.client.Value(ctx, addr)
		require.NoError(t, err)
		assert.Equal(t, uint64(20), current)
	}
}

func TestCounterService(t *testing.T) {
	f := newFixture()

	t.Run("instantiate then query", instantiateThenQuery(f))
	t.Run("increments three times", incrementsThreeTimes(f))
	t.Run("resets from any sender", resetsFromAnySender(f))
	t.Run("discards increment overflow", overflowIsDiscarded(f))
	t.Run("query before instantiate", queryBeforeInstantiate(f))
	t.Run("execute before instantiate", executeBeforeInstantiate(f))
	t.Run("rejects second instantiate", rejectsSecondInstantiate(f))
	t.Run("failed execute commits nothing", failedExecuteCommitsNothing(f))
	t.Run("rejects out of range values", rejectsOutOfRangeValues(f))
	t.Run("queries never publish", queriesNeverPublish(f))
	t.Run("publishes change sets", publishesChangeSets(f))
	t.Run("serializes concurrent increments", serializesConcurrentIncrements(f))
}
