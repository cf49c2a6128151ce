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

package ticker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicker(t *testing.T) {
	t.Run("With ticks delivered", func(t *testing.T) {
		ticker := New(5 * time.Millisecond)
		ticker.Start()
		defer ticker.Stop()

		select {
		case <-ticker.Ticks:
		case <-time.After(time.Second):
			t.Fatal("no tick delivered")
		}
	})
	t.Run("With Stop", func(t *testing.T) {
		ticker := New(time.Millisecond)
		ticker.Start()
		ticker.Stop()

		// drain whatever was in flight, then expect silence
		time.Sleep(10 * time.Millisecond)
		for {
			select {
			case <-ticker.Ticks:
				continue
			default:
			}
			break
		}

		select {
		case <-ticker.Ticks:
			t.Fatal("tick delivered after stop")
		case <-time.After(20 * time.Millisecond):
		}
	})
	t.Run("With idempotent Start and Stop", func(t *testing.T) {
		ticker := New(time.Millisecond)
		ticker.Start()
		ticker.Start()
		ticker.Stop()
		ticker.Stop()
	})
	t.Run("With invalid interval", func(t *testing.T) {
		assert.Panics(t, func() { New(0) })
		assert.Panics(t, func() { New(-time.Second) })
	})
}
