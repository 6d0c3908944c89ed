// Copyright 2024 Google LLC
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
Package audit is the external-interface adapter surface: it wires a
manifest.MultiReader, a resolve.Engine and the classify package into a
single Run call, and supplies the default Logger/Clock the Core's
constructors expect.
*/
package audit

import (
	"log"
	"time"
)

// StdLogger adapts the standard library's *log.Logger to resolve.Logger,
// matching the teacher repo's own logging idiom: every resolver and
// example under the teacher repo logs through log.Printf/log.Fatalf, never
// a structured-logging framework.
type StdLogger struct {
	*log.Logger
}

// NewStdLogger returns a Logger that writes to the standard library's
// default logger (stderr, no flags), the same default examples/go/resolve
// configures with log.SetFlags(0).
func NewStdLogger() StdLogger {
	l := log.New(log.Writer(), "", 0)
	return StdLogger{Logger: l}
}

// Printf implements resolve.Logger.
func (l StdLogger) Printf(format string, args ...any) {
	l.Logger.Printf(format, args...)
}

// SystemClock implements resolve.Clock with the real wall clock.
type SystemClock struct{}

// Now implements resolve.Clock.
func (SystemClock) Now() time.Time { return time.Now() }
