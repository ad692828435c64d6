// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/luxfi/snowball/timing"
	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

const (
	keyMembers              = "sawtooth.consensus.algorithm.members"
	keyAlfa                 = "sawtooth.consensus.algorithm.alfa"
	keyBeta                 = "sawtooth.consensus.algorithm.beta"
	keyK                    = "sawtooth.consensus.algorithm.k"
	keyBlockPublishingDelay = "sawtooth.consensus.algorithm.block_publishing_delay"
	keyHangTimeout          = "sawtooth.consensus.algorithm.hang_timeout"
	keyIdleTimeout          = "sawtooth.consensus.algorithm.idle_timeout"

	keyByzantineEnabled          = "sawtooth.byzantine.enabled"
	keyByzantineMaxChurnTimeout  = "sawtooth.byzantine.parameter.max_churn_timeout"
	keyByzantineChurnIdx         = "sawtooth.byzantine.parameter.churn_idx"
	keyByzantineHangIdx          = "sawtooth.byzantine.parameter.hang_idx"
	keyByzantineMaxSleepDelay    = "sawtooth.byzantine.parameter.max_sleep_delay"
	keyByzantineSleepIdx         = "sawtooth.byzantine.parameter.sleep_idx"
	keyByzantineDuplicateIdx     = "sawtooth.byzantine.parameter.duplicate_idx"
	keyByzantineSpuriousIdx      = "sawtooth.byzantine.parameter.spurious_idx"
	keyByzantineWrongDecisionIdx = "sawtooth.byzantine.parameter.wrong_decision_idx"
)

func settingsKeys() []string {
	return []string{
		keyMembers, keyBlockPublishingDelay, keyIdleTimeout, keyAlfa, keyBeta, keyK, keyHangTimeout,
		keyByzantineEnabled, keyByzantineMaxChurnTimeout, keyByzantineChurnIdx, keyByzantineHangIdx,
		keyByzantineMaxSleepDelay, keyByzantineSleepIdx, keyByzantineDuplicateIdx, keyByzantineSpuriousIdx,
		keyByzantineWrongDecisionIdx,
	}
}

// Load fetches on-chain settings at atBlock through svc, wrapped in
// exponential-backoff retry (settings fetches are transient failures), and
// returns a validated Params. Required keys missing or unparsable are
// fatal.
func Load(ctx context.Context, atBlock wireproto.BlockID, svc validator.Service, retryBase, retryMax time.Duration) (Params, error) {
	settings, err := timing.RetryUntilOK(ctx, retryBase, retryMax, func() (map[string]string, error) {
		return svc.GetSettings(ctx, atBlock, settingsKeys())
	})
	if err != nil {
		return Params{}, fmt.Errorf("fetch on-chain settings: %w", err)
	}

	params := Defaults()

	members, err := membersFromSettings(settings)
	if err != nil {
		return Params{}, err
	}
	params.Members = members

	params.Alfa, err = requiredInt(settings, keyAlfa, ErrAlfaRequired)
	if err != nil {
		return Params{}, err
	}
	params.Beta, err = requiredInt(settings, keyBeta, ErrBetaRequired)
	if err != nil {
		return Params{}, err
	}
	params.K, err = requiredInt(settings, keyK, ErrKRequired)
	if err != nil {
		return Params{}, err
	}

	mergeMillis(settings, keyBlockPublishingDelay, &params.BlockPublishingDelay)
	mergeMillis(settings, keyHangTimeout, &params.HangTimeout)

	if v, ok := settings[keyByzantineEnabled]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			params.Byzantine.Enabled = parsed
		}
	}
	mergeMillis(settings, keyByzantineMaxChurnTimeout, &params.Byzantine.MaxChurnTimeout)
	mergeMillis(settings, keyByzantineMaxSleepDelay, &params.Byzantine.MaxSleepDelay)
	params.Byzantine.ChurnIdx = mergeIdxSet(settings, keyByzantineChurnIdx)
	params.Byzantine.HangIdx = mergeIdxSet(settings, keyByzantineHangIdx)
	params.Byzantine.SleepIdx = mergeIdxSet(settings, keyByzantineSleepIdx)
	params.Byzantine.DuplicateIdx = mergeIdxSet(settings, keyByzantineDuplicateIdx)
	params.Byzantine.SpuriousIdx = mergeIdxSet(settings, keyByzantineSpuriousIdx)
	params.Byzantine.WrongDecisionIdx = mergeIdxSet(settings, keyByzantineWrongDecisionIdx)

	if err := params.Validate(); err != nil {
		return Params{}, err
	}

	return params, nil
}

func membersFromSettings(settings map[string]string) ([]wireproto.PeerID, error) {
	raw, ok := settings[keyMembers]
	if !ok {
		return nil, ErrMembersRequired
	}

	var hexMembers []string
	if err := json.Unmarshal([]byte(raw), &hexMembers); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMembersRequired, err)
	}

	members := make([]wireproto.PeerID, len(hexMembers))
	for i, s := range hexMembers {
		decoded, err := hex.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: member %d: %s", ErrMembersRequired, i, err)
		}
		members[i] = decoded
	}
	return members, nil
}

func requiredInt(settings map[string]string, key string, missingErr error) (int, error) {
	raw, ok := settings[key]
	if !ok {
		return 0, missingErr
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", missingErr, err)
	}
	return value, nil
}

func mergeMillis(settings map[string]string, key string, field *time.Duration) {
	raw, ok := settings[key]
	if !ok {
		return
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}
	*field = time.Duration(millis) * time.Millisecond
}

func mergeIdxSet(settings map[string]string, key string) map[int]struct{} {
	raw, ok := settings[key]
	if !ok {
		return nil
	}
	var idxs []int
	if err := json.Unmarshal([]byte(raw), &idxs); err != nil {
		return nil
	}
	set := make(map[int]struct{}, len(idxs))
	for _, i := range idxs {
		set[i] = struct{}{}
	}
	return set
}
