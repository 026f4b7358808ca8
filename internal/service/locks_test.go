package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodLockerSerializesPerPeriod(t *testing.T) {
	locker := NewPeriodLocker()

	const workers = 8
	const iterations = 200
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				unlock := locker.Lock("p1")
				counter++
				unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*iterations, counter)
}

func TestPeriodLockerIndependentPeriods(t *testing.T) {
	locker := NewPeriodLocker()

	unlockA := locker.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := locker.Lock("b")
		unlockB()
		close(done)
	}()
	<-done // holding "a" must not block "b"
	unlockA()
}
