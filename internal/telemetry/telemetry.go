// Copyright © 2026 Jeff Berkowitz (pdxjjb@gmail.com)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.

// Package telemetry wires up the daemon's two observability surfaces:
// a zerolog.Logger (console in dev, JSON in production) and the
// prometheus metrics the daemon updates from published snapshots.
package telemetry

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// NewLogger builds the bootstrap logger for main. Every component below
// it receives a derived logger via constructor injection; no package
// holds a logger in a package-level variable.
func NewLogger(pretty bool, levelName string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if pretty {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Logger().Level(level)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

// Metrics is the fixed set of prometheus collectors. The world's
// scheduler writes none of them: the bot gauges, SnapshotVer and
// TrapsByKind are set by the daemon's snapshot watcher, and nothing
// observes TickDuration. Registered once per process; a multi-world daemon
// would add a "world" label, but this build serves a single world.
type Metrics struct {
	TickDuration prometheus.Histogram
	AliveBots    prometheus.Gauge
	QueuedBots   prometheus.Gauge
	DeadBots     prometheus.Gauge
	TrapsByKind  *prometheus.CounterVec
	SnapshotVer  prometheus.Gauge
}

// NewMetrics registers every collector against reg and returns their
// handles.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kartoffels",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock time spent running one world tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 16),
		}),
		AliveBots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kartoffels",
			Name:      "alive_bots",
			Help:      "Number of currently alive bots.",
		}),
		QueuedBots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kartoffels",
			Name:      "queued_bots",
			Help:      "Number of bots waiting to spawn.",
		}),
		DeadBots: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kartoffels",
			Name:      "dead_bots",
			Help:      "Number of bots retained in the dead-bot ring buffer.",
		}),
		TrapsByKind: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kartoffels",
			Name:      "cpu_traps_total",
			Help:      "CPU traps observed, by trap kind.",
		}, []string{"kind"}),
		SnapshotVer: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kartoffels",
			Name:      "snapshot_version",
			Help:      "Most recently published snapshot version.",
		}),
	}
}
