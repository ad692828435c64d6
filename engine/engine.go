// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package engine drives a snownode.Node: it owns the single-threaded
// cooperative loop that receives validator updates, dispatches them to the
// node, and runs the periodic publish ticker and Byzantine churn check.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/snowball/config"
	"github.com/luxfi/snowball/snownode"
	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/storage"
	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/validator"
)

const (
	stateLogInterval = 4500 * time.Millisecond
	version          = "0.1.0"
)

// Engine is the Snowball consensus engine: a thin, named, versioned,
// health-checkable adapter around the real algorithm (snownode.Node plus
// the snowstate.State it owns).
type Engine struct {
	log     log.Logger
	svc     validator.Service
	node    *snownode.Node
	state   *snowstate.State
	params  config.Params
	storage storage.Handle
	metrics *metrics

	publishTicker *timing.Ticker
	churnTimeout  *timing.Timeout
	clock         timing.Clock

	lastStateLog     time.Time
	lastMessagesSent int
}

// New loads on-chain configuration, recovers or creates node state, and
// constructs the Node that will run against it. A nil store selects the
// backend named by params.StorageLocation; Load fetches no on-chain key for
// it, so it keeps its "memory" default.
func New(ctx context.Context, svc validator.Service, logger log.Logger, reg prometheus.Registerer, store storage.Handle, startup validator.StartupState) (*Engine, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	logger.Info("startup state received from validator", "chain_head", startup.ChainHead.BlockNum, "peers", len(startup.Peers))

	params, err := config.Load(ctx, startup.ChainHead.BlockID, svc, 100*time.Millisecond, 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Info("snowball config loaded", "alfa", params.Alfa, "beta", params.Beta, "k", params.K, "members", len(params.Members))

	m, err := newMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	clock := timing.SystemClock{}

	if store == nil {
		store, err = storage.FromLocation(params.StorageLocation)
		if err != nil {
			return nil, fmt.Errorf("open state storage: %w", err)
		}
	}

	st, err := store.Read()
	if err != nil {
		return nil, fmt.Errorf("read persisted state: %w", err)
	}
	if st == nil {
		st = snowstate.New(startup.LocalPeerID, startup.ChainHead.BlockNum, params)
	} else {
		st.ApplyParams(params)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	node := snownode.NewNode(ctx, svc, logger, rng, clock, params, startup.ChainHead, st)

	e := &Engine{
		log:           logger,
		svc:           svc,
		node:          node,
		state:         st,
		params:        params,
		storage:       store,
		metrics:       m,
		publishTicker: timing.NewTicker(clock, params.BlockPublishingDelay),
		clock:         clock,
		lastStateLog:  clock.Now(),
	}

	if params.Byzantine.Enabled && config.Has(params.Byzantine.ChurnIdx, st.Order) {
		delay := time.Duration(rng.Int63n(int64(params.Byzantine.MaxChurnTimeout) + 1))
		e.churnTimeout = timing.NewTimeout(clock, delay)
		e.churnTimeout.Start()
		logger.Debug("byzantine process will churn", "order", st.Order, "delay", delay)
	}

	return e, nil
}

// Run executes the single-threaded cooperative loop until ctx is
// canceled, a Shutdown update arrives, the update channel closes, or a
// configured Byzantine churn timeout fires.
func (e *Engine) Run(ctx context.Context, updates <-chan validator.Update) error {
	timer := time.NewTimer(e.params.UpdateRecvTimeout)
	defer timer.Stop()

	for {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(e.params.UpdateRecvTimeout)

		var received *validator.Update
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				e.log.Error("disconnected from validator; stopping snowball")
				return fmt.Errorf("snowball: update channel closed")
			}
			received = &update
		case <-timer.C:
			// update_recv_timeout elapsed with nothing pending; proceed
			// to run the rest of the loop body regardless.
		}

		if e.churnTimeout != nil && e.churnTimeout.CheckExpired() {
			e.log.Info("byzantine churn timeout expired; terminating", "order", e.state.Order)
			return nil
		}

		e.node.HandleQueue(ctx, e.state)

		if received != nil {
			if !e.dispatch(ctx, *received) {
				e.log.Info("final state", "state", e.state.String())
				return nil
			}
		}

		e.node.HandleUnresponsivePeers(ctx, e.state)

		e.publishTicker.Tick(func() { e.node.TryPublish(ctx, e.state) })

		if err := e.node.Err(); err != nil {
			e.log.Error("unrecoverable validator failure; stopping snowball", "err", err)
			return err
		}

		e.metrics.pendingResponses.Set(float64(len(e.state.WaitingResponseMap)))

		if sent := e.state.Measurements.NMessagesSent; sent > e.lastMessagesSent {
			e.metrics.messagesSent.Add(float64(sent - e.lastMessagesSent))
			e.lastMessagesSent = sent
		}
		if d, ok := e.state.Measurements.TakeLastElapsed(); ok {
			e.metrics.decisionDuration.Observe(d.Seconds())
		}

		if e.clock.Now().Sub(e.lastStateLog) > stateLogInterval {
			e.log.Debug("state snapshot", "order", e.state.Order, "phase", e.state.Phase, "seq_num", e.state.SeqNum)
			e.lastStateLog = e.clock.Now()
		}

		if err := e.storage.Write(e.state); err != nil {
			e.log.Error("failed to persist state", "err", err)
		}
	}
}

// Name returns the consensus engine's registered name.
func (e *Engine) Name() string { return "snowball" }

// Version returns the engine's semantic version.
func (e *Engine) Version() string { return version }

// HealthCheck reports the engine's current liveness snapshot.
func (e *Engine) HealthCheck(context.Context) (interface{}, error) {
	return map[string]interface{}{
		"consensus": "snowball",
		"status":    "healthy",
		"order":     e.state.Order,
		"phase":     e.state.Phase.String(),
		"seq_num":   e.state.SeqNum,
	}, nil
}
