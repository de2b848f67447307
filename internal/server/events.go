package server

import (
	"os"

	"github.com/gencrud-dev/gencrud/internal/events"
	"github.com/gencrud-dev/gencrud/internal/logger"
)

// initEvents initializes the global events dispatcher from the config file
// at path ("" means no sinks).
func initEvents(path string) {
	evtConf, err := events.LoadConfig(path)
	if err != nil {
		logger.L.Error("Failed to load events configuration", "err", err)
		os.Exit(1)
	}
	var sinks []events.Sink
	if wh := events.NewWebhookSink(evtConf.Sinks.Webhook); wh != nil {
		sinks = append(sinks, wh)
	}
	if rs, err := events.NewRedisSink(evtConf.Sinks.Redis); err == nil && rs != nil {
		sinks = append(sinks, rs)
	} else if err != nil {
		logger.L.Error("redis sink", "err", err)
	}
	if ks, err := events.NewKafkaSink(evtConf.Sinks.Kafka); err == nil && ks != nil {
		sinks = append(sinks, ks)
	} else if err != nil {
		logger.L.Error("kafka sink", "err", err)
	}
	events.Default = events.NewDispatcher(evtConf, &events.LogDLQ{Logger: logger.L}, sinks...)
}
