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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tombee/ikpack/internal/cli"
	"github.com/tombee/ikpack/internal/tracing"
)

// Version information (injected via ldflags at build time)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.SetVersion(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A caller-supplied correlation ID ties ikpack's requests to a wider trace.
	id := tracing.CorrelationID(os.Getenv("IKPACK_CORRELATION_ID"))
	if !id.IsValid() {
		id = tracing.NewCorrelationID()
	}
	ctx = tracing.ToContext(ctx, id)

	rootCmd := cli.NewRootCommand()
	if cmd, err := rootCmd.ExecuteContextC(ctx); err != nil {
		stop()
		cli.HandleExitError(cmd.CommandPath(), err)
	}
}
