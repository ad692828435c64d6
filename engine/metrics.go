// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package engine

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	errFailedMessagesMetric = errors.New("failed to register messages metric")
	errFailedPendingMetric  = errors.New("failed to register pending responses metric")
	errFailedDecisionMetric = errors.New("failed to register decision duration metric")
)

// metrics holds the Prometheus collectors the engine updates once per
// loop iteration, registered through the caller-supplied Registerer at
// construction time.
type metrics struct {
	messagesSent     prometheus.Counter
	pendingResponses prometheus.Gauge
	decisionDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	messagesSent := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "snowball_messages_sent_total",
		Help: "Total number of peer messages sent by this node.",
	})
	if err := reg.Register(messagesSent); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedMessagesMetric, err)
	}

	pendingResponses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "snowball_pending_responses",
		Help: "Number of outstanding peer requests awaiting a response.",
	})
	if err := reg.Register(pendingResponses); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedPendingMetric, err)
	}

	decisionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "snowball_block_decision_duration_seconds",
		Help:    "Time from BlockNew to a final commit/fail decision.",
		Buckets: prometheus.DefBuckets,
	})
	if err := reg.Register(decisionDuration); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedDecisionMetric, err)
	}

	return &metrics{
		messagesSent:     messagesSent,
		pendingResponses: pendingResponses,
		decisionDuration: decisionDuration,
	}, nil
}
