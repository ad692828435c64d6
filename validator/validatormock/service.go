// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validatormock is a gomock-style mock of validator.Service for
// call-expectation tests.
package validatormock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/luxfi/snowball/validator"
	"github.com/luxfi/snowball/wireproto"
)

// Service is a mock of validator.Service.
type Service struct {
	ctrl     *gomock.Controller
	recorder *ServiceMockRecorder
}

// ServiceMockRecorder is the recorder for Service.
type ServiceMockRecorder struct {
	mock *Service
}

// NewService returns a new mock Service.
func NewService(ctrl *gomock.Controller) *Service {
	mock := &Service{ctrl: ctrl}
	mock.recorder = &ServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *Service) EXPECT() *ServiceMockRecorder {
	return m.recorder
}

func (m *Service) InitializeBlock(ctx context.Context, previous wireproto.BlockID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InitializeBlock", ctx, previous)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) InitializeBlock(ctx, previous interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InitializeBlock", reflect.TypeOf((*Service)(nil).InitializeBlock), ctx, previous)
}

func (m *Service) SummarizeBlock(ctx context.Context) ([]byte, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SummarizeBlock", ctx)
	ret0, _ := ret[0].([]byte)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *ServiceMockRecorder) SummarizeBlock(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SummarizeBlock", reflect.TypeOf((*Service)(nil).SummarizeBlock), ctx)
}

func (m *Service) FinalizeBlock(ctx context.Context, consensusData []byte) (wireproto.BlockID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FinalizeBlock", ctx, consensusData)
	ret0, _ := ret[0].(wireproto.BlockID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *ServiceMockRecorder) FinalizeBlock(ctx, consensusData interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FinalizeBlock", reflect.TypeOf((*Service)(nil).FinalizeBlock), ctx, consensusData)
}

func (m *Service) CancelBlock(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CancelBlock", ctx)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) CancelBlock(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CancelBlock", reflect.TypeOf((*Service)(nil).CancelBlock), ctx)
}

func (m *Service) CheckBlocks(ctx context.Context, ids []wireproto.BlockID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CheckBlocks", ctx, ids)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) CheckBlocks(ctx, ids interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CheckBlocks", reflect.TypeOf((*Service)(nil).CheckBlocks), ctx, ids)
}

func (m *Service) CommitBlock(ctx context.Context, id wireproto.BlockID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CommitBlock", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) CommitBlock(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CommitBlock", reflect.TypeOf((*Service)(nil).CommitBlock), ctx, id)
}

func (m *Service) FailBlock(ctx context.Context, id wireproto.BlockID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FailBlock", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) FailBlock(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FailBlock", reflect.TypeOf((*Service)(nil).FailBlock), ctx, id)
}

func (m *Service) GetChainHead(ctx context.Context) (validator.Block, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChainHead", ctx)
	ret0, _ := ret[0].(validator.Block)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *ServiceMockRecorder) GetChainHead(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChainHead", reflect.TypeOf((*Service)(nil).GetChainHead), ctx)
}

func (m *Service) GetSettings(ctx context.Context, atBlock wireproto.BlockID, keys []string) (map[string]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSettings", ctx, atBlock, keys)
	ret0, _ := ret[0].(map[string]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *ServiceMockRecorder) GetSettings(ctx, atBlock, keys interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSettings", reflect.TypeOf((*Service)(nil).GetSettings), ctx, atBlock, keys)
}

func (m *Service) Broadcast(ctx context.Context, messageType string, payload []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Broadcast", ctx, messageType, payload)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) Broadcast(ctx, messageType, payload interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Broadcast", reflect.TypeOf((*Service)(nil).Broadcast), ctx, messageType, payload)
}

func (m *Service) SendTo(ctx context.Context, peer wireproto.PeerID, messageType string, payload []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendTo", ctx, peer, messageType, payload)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *ServiceMockRecorder) SendTo(ctx, peer, messageType, payload interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendTo", reflect.TypeOf((*Service)(nil).SendTo), ctx, peer, messageType, payload)
}

var _ validator.Service = (*Service)(nil)
