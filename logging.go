// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fbm

import "github.com/sirupsen/logrus"

// Logger is the debug-log sink (§6). *logrus.Logger and *logrus.Entry
// both satisfy it.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// NoopLogger discards everything. It is the default debug-log sink.
var NoopLogger Logger = noopLogger{}

// NewLogrusLogger wraps l as a Logger.
func NewLogrusLogger(l *logrus.Logger) Logger { return l }
