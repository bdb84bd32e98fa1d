//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/weegigs/wee-counter-go/stores/dynamo"
	"github.com/weegigs/wee-counter-go/stores/eventstoredb"
	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/stores/memory"
	"github.com/weegigs/wee-counter-go/support"
)

func memoryServer(ctx context.Context, cfg support.Config) (*Server, func(), error) {
	panic(wire.Build(memory.Live, Common))
}

func dynamoServer(ctx context.Context, cfg support.Config) (*Server, func(), error) {
	panic(wire.Build(dynamo.Live, TableName, Common))
}

func localDynamoServer(ctx context.Context, cfg support.Config) (*Server, func(), error) {
	panic(wire.Build(dynamo.Local, Common))
}

func jetstreamServer(ctx context.Context, cfg support.Config) (*Server, func(), error) {
	panic(wire.Build(jetstream.Live, StreamName, NATSURL, Common))
}

func esdbServer(ctx context.Context, cfg support.Config) (*Server, func(), error) {
	panic(wire.Build(eventstoredb.Live, ESDBConnection, Common))
}
