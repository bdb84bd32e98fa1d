package main

import (
	"net/http"
	"os"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/stores/dynamo"
	"github.com/weegigs/wee-counter-go/stores/eventstoredb"
	"github.com/weegigs/wee-counter-go/stores/jetstream"
	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

var Common = wire.NewSet(
	counter.Service,
	Logger,
	Registerer,
	we.NewMetrics,
	Contracts,
	Handler,
	NewServer,
)

type Server struct {
	API http.Handler
}

func NewServer(api http.Handler) *Server {
	return &Server{API: api}
}

func Logger(cfg support.Config) *zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return &logger
}

func Registerer() prometheus.Registerer {
	return prometheus.DefaultRegisterer
}

func Contracts(service we.ContractService) wehttp.Contracts {
	return wehttp.Contracts{counter.Name: service}
}

func Handler(contracts wehttp.Contracts, logger *zerolog.Logger) http.Handler {
	return wehttp.NewHandler(contracts, wehttp.Logger(logger))
}

func TableName(cfg support.Config) dynamo.EventsTableName {
	return dynamo.EventsTableName(cfg.DynamoDB.Table)
}

func StreamName(cfg support.Config) jetstream.StreamName {
	return jetstream.StreamName(cfg.NATS.Stream)
}

func NATSURL(cfg support.Config) jetstream.ServerURL {
	return jetstream.ServerURL(cfg.NATS.URL)
}

func ESDBConnection(cfg support.Config) eventstoredb.ConnectionString {
	return eventstoredb.ConnectionString(cfg.ESDB.URL)
}
