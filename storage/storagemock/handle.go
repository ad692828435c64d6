// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storagemock is a hand-written mock of storage.Handle, in the
// shape mockgen would generate.
package storagemock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/luxfi/snowball/snowstate"
	"github.com/luxfi/snowball/storage"
)

// Handle is a mock of storage.Handle.
type Handle struct {
	ctrl     *gomock.Controller
	recorder *HandleMockRecorder
}

// HandleMockRecorder is the recorder for Handle.
type HandleMockRecorder struct {
	mock *Handle
}

// NewHandle returns a new mock Handle.
func NewHandle(ctrl *gomock.Controller) *Handle {
	mock := &Handle{ctrl: ctrl}
	mock.recorder = &HandleMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *Handle) EXPECT() *HandleMockRecorder {
	return m.recorder
}

func (m *Handle) Read() (*snowstate.State, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read")
	ret0, _ := ret[0].(*snowstate.State)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *HandleMockRecorder) Read() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*Handle)(nil).Read))
}

func (m *Handle) Write(st *snowstate.State) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", st)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *HandleMockRecorder) Write(st interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*Handle)(nil).Write), st)
}

var _ storage.Handle = (*Handle)(nil)
