// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider_StdoutExport(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{
		Enabled:        true,
		ServiceName:    "ikpack-test",
		ServiceVersion: "0.0.1",
		Exporter:       ExporterStdout,
		Writer:         &buf,
	}, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.True(t, p.TracingEnabled())

	_, span := otel.Tracer("test").Start(ctx, "imagekit.sync_files")
	span.End()

	require.NoError(t, p.Shutdown(ctx))
	assert.Contains(t, buf.String(), "imagekit.sync_files")
	assert.Contains(t, buf.String(), "ikpack-test")
}

func TestNewProvider_MetricsBridge(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()

	p, err := NewProvider(ctx, Config{ServiceName: "ikpack-test"}, reg)
	require.NoError(t, err)
	defer p.Shutdown(ctx)
	assert.False(t, p.TracingEnabled())

	counter, err := otel.Meter("test").Int64Counter("ikpack.test.events")
	require.NoError(t, err)
	counter.Add(ctx, 3)

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "ikpack_test_events") {
			found = true
			require.NotEmpty(t, f.GetMetric())
			assert.Equal(t, 3.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "otel counter should be exported through the prometheus registry")
}

func TestCreateExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{ExporterStdout, ExporterOTLPHTTP, ExporterOTLPGRPC} {
		t.Run(name, func(t *testing.T) {
			exp, err := CreateExporter(ctx, Config{Exporter: name, Endpoint: "localhost:4317", Insecure: true, Writer: &bytes.Buffer{}})
			require.NoError(t, err)
			require.NotNil(t, exp)
			_ = exp.Shutdown(ctx)
		})
	}

	_, err := CreateExporter(ctx, Config{Exporter: "zipkin"})
	assert.Error(t, err)
}
