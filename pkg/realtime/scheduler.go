// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

package realtime

import "sync"

// Scheduler runs subscriber callbacks off the socket read loop.
// Schedule must not run task inline on the calling goroutine.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(task func())

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(task func()) { f(task) }

// goroutineScheduler starts one goroutine per task and can wait for all of
// them to finish. Ordering between tasks is not defined.
type goroutineScheduler struct {
	wg sync.WaitGroup
}

func (s *goroutineScheduler) Schedule(task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()
	}()
}

func (s *goroutineScheduler) Wait() {
	s.wg.Wait()
}
