// Copyright 2019 Anapaya Systems
// Copyright 2026 The sdnroute Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package db

import (
	"errors"

	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

var (
	// ErrInvalidInputData indicates invalid data was tried to input in the DB.
	ErrInvalidInputData = errors.New("db: input data invalid")
	// ErrDataInvalid indicates invalid data is stored in the DB.
	ErrDataInvalid = errors.New("db: db data invalid")
	// ErrReadFailed indicates that reading from the DB failed.
	ErrReadFailed = errors.New("db: read failed")
	// ErrWriteFailed indicates that writing to the DB failed.
	ErrWriteFailed = errors.New("db: write failed")
	// ErrTx indicates a transaction error.
	ErrTx = errors.New("db: transaction error")
)

func join(sentinel error, msg string, err error, logCtx []any) error {
	return serrors.JoinNoStack(sentinel, err, append([]any{"detailMsg", msg}, logCtx...)...)
}

func NewTxError(msg string, err error, logCtx ...any) error {
	return join(ErrTx, msg, err, logCtx)
}

func NewInputDataError(msg string, err error, logCtx ...any) error {
	return join(ErrInvalidInputData, msg, err, logCtx)
}

func NewDataError(msg string, err error, logCtx ...any) error {
	return join(ErrDataInvalid, msg, err, logCtx)
}

func NewReadError(msg string, err error, logCtx ...any) error {
	return join(ErrReadFailed, msg, err, logCtx)
}

func NewWriteError(msg string, err error, logCtx ...any) error {
	return join(ErrWriteFailed, msg, err, logCtx)
}
