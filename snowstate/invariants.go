// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snowstate

import "fmt"

// AssertInvariants checks the structural invariants a State must uphold at
// every observation point (after each public method returns). It is meant
// to be called from tests and from debug-build assertions, never from the
// hot path of a production engine loop.
func (s *State) AssertInvariants() error {
	if sum := s.ResponseBuffer[0] + s.ResponseBuffer[1]; sum > s.K {
		return fmt.Errorf("snowstate: response_buffer sum %d exceeds k=%d", sum, s.K)
	}

	if s.Phase == Idle && len(s.WaitingResponseMap) != 0 {
		return fmt.Errorf("snowstate: %d entries still waiting while Idle", len(s.WaitingResponseMap))
	}
	if s.Phase == Idle && s.ResponseBuffer != [2]int{} {
		return fmt.Errorf("snowstate: response_buffer %v not cleared while Idle", s.ResponseBuffer)
	}

	if s.Order >= 0 {
		if got := s.OrderIndex(s.ID); got != s.Order {
			return fmt.Errorf("snowstate: order %d does not match member index %d", s.Order, got)
		}
	}

	for _, v := range s.DecisionMap {
		if v != OK && v != KO && v != Undecided {
			return fmt.Errorf("snowstate: decision_map holds invalid color %v", v)
		}
	}

	if s.Alfa > s.K {
		return fmt.Errorf("snowstate: alfa=%d exceeds k=%d", s.Alfa, s.K)
	}
	if s.Beta < 0 {
		return fmt.Errorf("snowstate: beta is negative: %d", s.Beta)
	}
	if s.ConfidenceCounter < 0 {
		return fmt.Errorf("snowstate: confidence_counter is negative: %d", s.ConfidenceCounter)
	}

	if len(s.WaitingResponseMap) != len(s.waitingPeers) {
		return fmt.Errorf("snowstate: waiting_response_map and waitingPeers diverge (%d vs %d)",
			len(s.WaitingResponseMap), len(s.waitingPeers))
	}

	return nil
}
