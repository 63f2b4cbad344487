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

package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

type logger struct {
	mu  sync.RWMutex
	lvl Level
	fld Fields
	lgr *logrus.Logger
}

func newLogger(w io.Writer) *logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(InfoLevel.Logrus())

	return &logger{lvl: InfoLevel, lgr: l}
}

func (o *logger) SetLevel(lvl Level) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lvl = lvl
	o.lgr.SetLevel(lvl.Logrus())
}

func (o *logger) GetLevel() Level {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lvl
}

func (o *logger) SetFields(f Fields) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fld = f
}

func (o *logger) GetFields() Fields {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fld
}

func (o *logger) Clone() Logger {
	o.mu.RLock()
	defer o.mu.RUnlock()

	return &logger{
		lvl: o.lvl,
		fld: o.fld.Merge(nil),
		lgr: o.lgr,
	}
}

func (o *logger) Debug(message string, data interface{}, args ...interface{}) {
	o.log(DebugLevel, message, data, nil, nil, args...)
}

func (o *logger) Info(message string, data interface{}, args ...interface{}) {
	o.log(InfoLevel, message, data, nil, nil, args...)
}

func (o *logger) Warning(message string, data interface{}, args ...interface{}) {
	o.log(WarnLevel, message, data, nil, nil, args...)
}

func (o *logger) Error(message string, data interface{}, args ...interface{}) {
	o.log(ErrorLevel, message, data, nil, nil, args...)
}

func (o *logger) Fatal(message string, data interface{}, args ...interface{}) {
	o.log(FatalLevel, message, data, nil, nil, args...)
}

func (o *logger) LogDetails(lvl Level, message string, data interface{}, err []error, fields Fields, args ...interface{}) {
	o.log(lvl, message, data, err, fields, args...)
}

func (o *logger) CheckError(lvlKO, lvlOK Level, message string, err ...error) bool {
	var real []error
	for _, e := range err {
		if e != nil {
			real = append(real, e)
		}
	}

	if len(real) > 0 {
		o.log(lvlKO, message, nil, real, nil)
		return true
	}

	if lvlOK != NilLevel {
		o.log(lvlOK, message, nil, nil, nil)
	}
	return false
}

func (o *logger) log(lvl Level, message string, data interface{}, err []error, fields Fields, args ...interface{}) {
	if o == nil || lvl > o.GetLevel() {
		return
	}

	f := o.GetFields().Merge(fields)
	if data != nil {
		f = f.Add("data", data)
	}
	if len(err) > 0 {
		f = f.Add("errors", err)
	}

	entry := o.lgr.WithFields(f.Logrus())
	msg := fmt.Sprintf(message, args...)

	switch lvl {
	case PanicLevel:
		entry.Panic(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case ErrorLevel:
		entry.Error(msg)
	case WarnLevel:
		entry.Warning(msg)
	case InfoLevel:
		entry.Info(msg)
	case DebugLevel:
		entry.Debug(msg)
	}
}
