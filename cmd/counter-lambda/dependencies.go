package main

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/connectors/welambda"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/dynamo"
	"github.com/weegigs/wee-counter-go/we"
)

var Live = wire.NewSet(
	dynamo.Live,
	dynamo.LiveEventsTableName,
	counter.Service,
	Metrics,
	wire.Value(&log.Logger),
	Handler,
)

func Metrics() *we.Metrics {
	return we.NewMetrics(prometheus.NewRegistry())
}

func Handler(service we.ContractService) welambda.GatewayHandler {
	return welambda.NewQueryHandler(wehttp.Contracts{counter.Name: service})
}
