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

// Phase is a named stage in an actor's lifecycle state machine.
//
// The lifecycle is a directed graph, not a cycle:
//
//	Starting → Started → CloseRequested → Closing → Closed
//
// Failed is an absorbing terminal state reachable from Starting, Started and
// Closing when actor-owned code fails.
type Phase int32

const (
	// Starting is the initial phase; the startup hook and the jobs it
	// enqueues run here.
	Starting Phase = iota
	// Started is the regular operating phase.
	Started
	// CloseRequested marks that a close has been observed by the actor.
	CloseRequested
	// Closing runs the shutdown hook and the jobs it enqueues.
	Closing
	// Closed is the regular terminal phase.
	Closed
	// Failed is the terminal phase of an actor whose code failed.
	Failed
)

// String returns the text representation of the phase.
func (p Phase) String() string {
	switch p {
	case Starting:
		return "STARTING"
	case Started:
		return "STARTED"
	case CloseRequested:
		return "CLOSE_REQUESTED"
	case Closing:
		return "CLOSING"
	case Closed:
		return "CLOSED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further phase transition is possible.
func (p Phase) Terminal() bool {
	return p == Closed || p == Failed
}
