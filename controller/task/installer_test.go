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

package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sdnroute/sdnroute/controller/task"
	"github.com/sdnroute/sdnroute/controller/task/mock_task"
	"github.com/sdnroute/sdnroute/pkg/metrics"
	"github.com/sdnroute/sdnroute/pkg/private/serrors"
)

func retrying(inner task.Installer, retries metrics.Counter) task.RetryInstaller {
	return task.RetryInstaller{
		Installer:       inner,
		MaxTries:        3,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Retries:         retries,
	}
}

func TestRetryInstaller(t *testing.T) {
	flows := []task.Flow{{DPID: 1}}
	transient := errors.New("connection reset")

	t.Run("recovers from transient failures", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_task.NewMockInstaller(ctrl)
		gomock.InOrder(
			inner.EXPECT().Install(gomock.Any(), flows).Return(transient),
			inner.EXPECT().Install(gomock.Any(), flows).Return(transient),
			inner.EXPECT().Install(gomock.Any(), flows).Return(nil),
		)
		retries := metrics.NewTestCounter()
		assert.NoError(t, retrying(inner, retries).Install(context.Background(), flows))
		assert.Equal(t, float64(2), metrics.CounterValue(retries))
	})
	t.Run("gives up after max tries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_task.NewMockInstaller(ctrl)
		inner.EXPECT().Install(gomock.Any(), flows).Return(transient).Times(3)
		err := retrying(inner, nil).Install(context.Background(), flows)
		assert.ErrorIs(t, err, transient)
	})
	t.Run("permanent failures are not retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		inner := mock_task.NewMockInstaller(ctrl)
		permanent := serrors.JoinNoStack(task.ErrPermanent, nil, "dpid", 1)
		inner.EXPECT().Install(gomock.Any(), flows).Return(permanent)
		err := retrying(inner, nil).Install(context.Background(), flows)
		assert.ErrorIs(t, err, task.ErrPermanent)
	})
}

func TestInstallerFunc(t *testing.T) {
	var got []task.Flow
	f := task.InstallerFunc(func(_ context.Context, flows []task.Flow) error {
		got = flows
		return nil
	})
	assert.NoError(t, f.Install(context.Background(), []task.Flow{{DPID: 7}}))
	assert.Equal(t, []task.Flow{{DPID: 7}}, got)
	assert.NoError(t, task.LogInstaller{}.Install(context.Background(), got))
}
