// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package watcher

import (
	"sync"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// debouncer collects the changed files and flushes them once no change happened during delay. Flushes never overlap:
// changes arriving during a flush are flushed after it returns.
type debouncer struct {
	delay   time.Duration
	changed map[string]bool
	timer   *time.Timer
	stopped bool
	mutex   sync.Mutex

	// held while flushing, acquired before mutex
	flushing sync.Mutex
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		changed: map[string]bool{},
	}
}

func (d *debouncer) add(path string, flush func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.changed[path] = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.flushing.Lock()
		defer d.flushing.Unlock()
		if changed := d.take(); len(changed) > 0 {
			flush(changed)
		}
	})
}

// take returns the sorted changed files and resets the set
func (d *debouncer) take() []string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return nil
	}
	changed := maps.Keys(d.changed)
	slices.Sort(changed)
	d.changed = map[string]bool{}
	return changed
}

// stop drops the pending changes and waits for a running flush to return
func (d *debouncer) stop() {
	d.flushing.Lock()
	defer d.flushing.Unlock()
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
