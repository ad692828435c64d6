// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/validator/validatortest"
	"github.com/luxfi/snowball/wireproto"
)

func validSettings() map[string]string {
	return map[string]string{
		keyMembers: `["aa", "bb", "cc", "dd", "ee"]`,
		keyAlfa:    "3",
		keyBeta:    "2",
		keyK:       "3",
	}
}

func TestLoadSuccess(t *testing.T) {
	svc := validatortest.NewFakeService(validator.Block{})
	svc.Settings = validSettings()

	params, err := Load(context.Background(), wireproto.BlockID{}, svc, time.Millisecond, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, 3, params.Alfa)
	require.Equal(t, 2, params.Beta)
	require.Equal(t, 3, params.K)
	require.Len(t, params.Members, 5)
}

func TestLoadMissingMembersIsFatal(t *testing.T) {
	svc := validatortest.NewFakeService(validator.Block{})
	svc.Settings = validSettings()
	delete(svc.Settings, keyMembers)

	_, err := Load(context.Background(), wireproto.BlockID{}, svc, time.Millisecond, time.Millisecond)
	require.ErrorIs(t, err, ErrMembersRequired)
}

func TestLoadMissingAlfaIsFatal(t *testing.T) {
	svc := validatortest.NewFakeService(validator.Block{})
	svc.Settings = validSettings()
	delete(svc.Settings, keyAlfa)

	_, err := Load(context.Background(), wireproto.BlockID{}, svc, time.Millisecond, time.Millisecond)
	require.ErrorIs(t, err, ErrAlfaRequired)
}

func TestLoadByzantineParamsMerged(t *testing.T) {
	svc := validatortest.NewFakeService(validator.Block{})
	svc.Settings = validSettings()
	svc.Settings[keyByzantineEnabled] = "true"
	svc.Settings[keyByzantineHangIdx] = "[1, 3]"

	params, err := Load(context.Background(), wireproto.BlockID{}, svc, time.Millisecond, time.Millisecond)
	require.NoError(t, err)
	require.True(t, params.Byzantine.Enabled)
	require.True(t, Has(params.Byzantine.HangIdx, 1))
	require.True(t, Has(params.Byzantine.HangIdx, 3))
	require.False(t, Has(params.Byzantine.HangIdx, 2))
}

func TestValidateRejectsZeroDefaults(t *testing.T) {
	require.ErrorIs(t, Params{}.Validate(), ErrKNotPositive)
}

func TestValidateAlfaBoundary(t *testing.T) {
	params := Params{K: 3, Beta: 1, Alfa: 3, Members: []wireproto.PeerID{{1}, {2}, {3}, {4}, {5}}}
	require.NoError(t, params.Validate())

	params.Alfa = 4
	require.ErrorIs(t, params.Validate(), ErrAlfaOutOfRange)
}

func TestValidateKExceedsMembers(t *testing.T) {
	params := Params{K: 3, Beta: 1, Alfa: 1, Members: make([]wireproto.PeerID, 2)}
	require.ErrorIs(t, params.Validate(), ErrKExceedsMembers)
}

func TestValidateDuplicateMember(t *testing.T) {
	dup := wireproto.PeerID{1, 2, 3}
	params := Params{K: 1, Beta: 1, Alfa: 1, Members: []wireproto.PeerID{dup, dup}}
	require.ErrorIs(t, params.Validate(), ErrDuplicateMember)
}
