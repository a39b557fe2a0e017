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

// Package watcher reruns an action when the Go files of directory trees change.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ualberta-smr/CryptoAnalysis/analysis/config"
	"golang.org/x/exp/maps"
)

// DefaultDelay is the time the watcher waits after the last change before calling the handler
const DefaultDelay = 500 * time.Millisecond

// ChangeHandler is called with the sorted list of files changed since the last call
type ChangeHandler func(changed []string) error

// Options configures a FileWatcher
type Options struct {
	// Delay is the debouncing delay. DefaultDelay is used when zero.
	Delay time.Duration

	// IncludeTests makes changes to _test.go files trigger the handler
	IncludeTests bool

	// Exclude are glob patterns of directories not to watch
	Exclude []string
}

// FileWatcher watches directory trees for changes of Go files
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	logger      *config.LogGroup
	options     Options
	watchedDirs map[string]bool
	debouncer   *debouncer
	done        chan struct{}
}

// NewFileWatcher returns a watcher. Errors of the handler and of the file system are logged to logger.
func NewFileWatcher(logger *config.LogGroup, options Options) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if options.Delay == 0 {
		options.Delay = DefaultDelay
	}
	return &FileWatcher{
		watcher:     w,
		logger:      logger,
		options:     options,
		watchedDirs: map[string]bool{},
		debouncer:   newDebouncer(options.Delay),
		done:        make(chan struct{}),
	}, nil
}

// Watch adds the directory trees rooted at paths to the watcher and starts calling handler on changes. It returns
// once the directories have been added.
func (fw *FileWatcher) Watch(paths []string, handler ChangeHandler) error {
	for _, path := range paths {
		if err := fw.addPath(path); err != nil {
			return fmt.Errorf("failed to watch path %s: %w", path, err)
		}
	}
	go fw.eventLoop(handler)
	return nil
}

// Done is closed when the watcher stops receiving events
func (fw *FileWatcher) Done() <-chan struct{} {
	return fw.done
}

func (fw *FileWatcher) addPath(path string) error {
	return filepath.Walk(path, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if walkPath != path && fw.shouldSkipDir(walkPath) {
			return filepath.SkipDir
		}
		if !fw.watchedDirs[walkPath] {
			if err := fw.watcher.Add(walkPath); err != nil {
				return fmt.Errorf("failed to add directory %s to watcher: %w", walkPath, err)
			}
			fw.watchedDirs[walkPath] = true
		}
		return nil
	})
}

func (fw *FileWatcher) eventLoop(handler ChangeHandler) {
	defer close(fw.done)
	report := func(changed []string) {
		if err := handler(changed); err != nil {
			fw.logger.Errorf("Handler error: %v\n", err)
		}
	}
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if fw.isWatchedFile(event.Name) && event.Op != fsnotify.Chmod {
				fw.logger.Tracef("%s %s\n", event.Op, event.Name)
				fw.debouncer.add(event.Name, report)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Errorf("File watcher error: %v\n", err)
		}
	}
}

func (fw *FileWatcher) isWatchedFile(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".go") || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.HasSuffix(name, "_test.go") {
		return fw.options.IncludeTests
	}
	return true
}

func (fw *FileWatcher) shouldSkipDir(path string) bool {
	switch name := filepath.Base(path); name {
	case "vendor", "testdata", ".git", ".idea", ".vscode", "node_modules":
		return true
	default:
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return true
		}
	}
	for _, pattern := range fw.options.Exclude {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}

// WatchedPaths returns the directories being watched
func (fw *FileWatcher) WatchedPaths() []string {
	return maps.Keys(fw.watchedDirs)
}

// Close stops the watcher. Pending changes are dropped.
func (fw *FileWatcher) Close() error {
	fw.debouncer.stop()
	return fw.watcher.Close()
}
