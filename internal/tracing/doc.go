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

/*
Package tracing wires OpenTelemetry into ikpack.

NewProvider installs a meter provider whose instruments are exported
through the Prometheus registry shared with the rest of the process, and,
when enabled, a tracer provider that exports spans to stdout or an OTLP
collector:

	provider, err := tracing.NewProvider(ctx, tracing.Config{
	    Enabled:     true,
	    ServiceName: "ikpack",
	    Exporter:    tracing.ExporterOTLPHTTP,
	    Endpoint:    "localhost:4318",
	    Insecure:    true,
	}, registry)
	defer provider.Shutdown(ctx)

Correlation IDs tag a single CLI invocation. They are stored in the
context, added to log records, and sent as X-Correlation-ID on outbound
requests by WrapHTTPClient.
*/
package tracing
