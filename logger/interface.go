/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger is the structured logging facade used by every other
// package in this module. It trims the wider ecosystem's logger down to
// what a reactor and its connections actually need - leveled entries with
// attached fields - backed by logrus the way the rest of the corpus wires
// it, instead of a hand-rolled formatter.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Level is a logging severity, ordered from most to least severe.
type Level uint8

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	// NilLevel disables logging entirely.
	NilLevel
)

// String returns the human-readable name of lvl.
func (lvl Level) String() string {
	switch lvl {
	case PanicLevel:
		return "panic"
	case FatalLevel:
		return "fatal"
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warning"
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	default:
		return "none"
	}
}

// Logrus converts lvl to its logrus.Level equivalent.
func (lvl Level) Logrus() logrus.Level {
	switch lvl {
	case PanicLevel:
		return logrus.PanicLevel
	case FatalLevel:
		return logrus.FatalLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.PanicLevel
	}
}

// Fields carries structured key/value data alongside a log entry. All
// mutating methods return a new Fields rather than modifying the receiver,
// so a base Fields value can safely be shared as a template.
type Fields map[string]interface{}

// Add returns a copy of f with key set to val.
func (f Fields) Add(key string, val interface{}) Fields {
	res := f.clone()
	res[key] = val
	return res
}

// Merge returns a copy of f with every key of other applied on top.
func (f Fields) Merge(other Fields) Fields {
	res := f.clone()
	for k, v := range other {
		res[k] = v
	}
	return res
}

// Logrus converts f to the logrus.Fields it decorates an entry with.
func (f Fields) Logrus() logrus.Fields {
	return logrus.Fields(f.clone())
}

func (f Fields) clone() Fields {
	res := make(Fields, len(f))
	for k, v := range f {
		res[k] = v
	}
	return res
}

// Logger is the structured logging contract shared by every package of
// this module. The implementation returned by New logs nothing when
// Debug, Info, Warning, Error, Fatal, LogDetails or CheckError is called
// on a nil receiver; its other methods dereference the receiver, and a
// nil Logger interface value cannot be called at all.
type Logger interface {
	// SetLevel changes the minimal severity that is actually emitted.
	SetLevel(lvl Level)
	// GetLevel returns the minimal severity currently emitted.
	GetLevel() Level

	// SetFields replaces the default fields attached to every entry.
	SetFields(f Fields)
	// GetFields returns the default fields attached to every entry.
	GetFields() Fields

	// Clone returns an independent copy sharing the same output writer.
	Clone() Logger

	Debug(message string, data interface{}, args ...interface{})
	Info(message string, data interface{}, args ...interface{})
	Warning(message string, data interface{}, args ...interface{})
	Error(message string, data interface{}, args ...interface{})
	// Fatal logs at FatalLevel then calls os.Exit(1).
	Fatal(message string, data interface{}, args ...interface{})

	// LogDetails logs message at lvl with the given errors, data and
	// fields merged on top of the logger's default fields.
	LogDetails(lvl Level, message string, data interface{}, err []error, fields Fields, args ...interface{})
	// CheckError logs at lvlKO if any err is non-nil, otherwise at lvlOK
	// unless lvlOK is NilLevel. Returns true if an error was logged.
	CheckError(lvlKO, lvlOK Level, message string, err ...error) bool
}

// New creates a Logger writing to w at InfoLevel with no default fields.
func New(w io.Writer) Logger {
	return newLogger(w)
}
