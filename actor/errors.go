/*
 * MIT License
 *
 * Copyright (c) 2024-2026 Castorflow Authors
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
 */

package actor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchedulerNotStarted is returned when submitting to a scheduler that
	// has not been started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrSchedulerClosed is returned when submitting to a scheduler that is
	// closing or closed.
	ErrSchedulerClosed = errors.New("scheduler is closed")

	// ErrActorAlreadyExists is returned when submitting an actor under a name
	// that is already registered.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrInvalidInterval is raised when a timer is registered with a delay or
	// period that is not greater than zero.
	ErrInvalidInterval = errors.New("interval must be greater than zero")
)

// ShutdownError reports a partial shutdown: some actors did not reach a
// terminal phase within the close deadline and were force-abandoned.
type ShutdownError struct {
	// Abandoned lists the names of actors that did not reach Closed or
	// Failed before the deadline.
	Abandoned []string
	// Err aggregates the failures surfaced by actors that did terminate.
	Err error
}

// Error implements the error interface.
func (e *ShutdownError) Error() string {
	msg := fmt.Sprintf("scheduler shutdown abandoned %d actor(s): %s",
		len(e.Abandoned), strings.Join(e.Abandoned, ", "))
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the aggregated actor failures.
func (e *ShutdownError) Unwrap() error {
	return e.Err
}
