package match

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domainmatch "resmatch/internal/domain/match"
)

func TestFlightGroupCollapsesConcurrentCalls(t *testing.T) {
	group := newFlightGroup()
	ctx := context.Background()

	var computations int32
	release := make(chan struct{})
	started := make(chan struct{})

	fn := func() (domainmatch.Score, error) {
		atomic.AddInt32(&computations, 1)
		close(started)
		<-release
		return domainmatch.Score{Overall: 42}, nil
	}

	var wg sync.WaitGroup
	results := make([]domainmatch.Score, 5)
	errs := make([]error, 5)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = group.do(ctx, "score:stu-1:proj-1", fn)
	}()
	<-started

	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = group.do(ctx, "score:stu-1:proj-1", func() (domainmatch.Score, error) {
				atomic.AddInt32(&computations, 1)
				return domainmatch.Score{Overall: 0}, nil
			})
		}(i)
	}

	// Give followers time to queue on the in-flight entry before the owner
	// is released.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&computations); got != 1 {
		t.Fatalf("computations = %d, want 1", got)
	}
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if results[i].Overall != 42 {
			t.Fatalf("caller %d Overall = %v, want shared 42", i, results[i].Overall)
		}
	}
}

func TestFlightGroupDistinctKeysRunIndependently(t *testing.T) {
	group := newFlightGroup()
	ctx := context.Background()

	first, err := group.do(ctx, "score:stu-1:proj-1", func() (domainmatch.Score, error) {
		return domainmatch.Score{Overall: 10}, nil
	})
	if err != nil || first.Overall != 10 {
		t.Fatalf("first = (%v, %v)", first.Overall, err)
	}

	second, err := group.do(ctx, "score:stu-1:proj-2", func() (domainmatch.Score, error) {
		return domainmatch.Score{Overall: 20}, nil
	})
	if err != nil || second.Overall != 20 {
		t.Fatalf("second = (%v, %v)", second.Overall, err)
	}
}

func TestFlightGroupEntryTornDownAfterCompletion(t *testing.T) {
	group := newFlightGroup()
	ctx := context.Background()

	calls := 0
	fn := func() (domainmatch.Score, error) {
		calls++
		return domainmatch.Score{Overall: float64(calls)}, nil
	}

	if _, err := group.do(ctx, "k", fn); err != nil {
		t.Fatalf("first do() error = %v", err)
	}
	score, err := group.do(ctx, "k", fn)
	if err != nil {
		t.Fatalf("second do() error = %v", err)
	}
	if calls != 2 || score.Overall != 2 {
		t.Fatalf("calls = %d, Overall = %v; entry must not outlive its flight", calls, score.Overall)
	}
}

func TestFlightGroupSharesOwnerError(t *testing.T) {
	group := newFlightGroup()
	ctx := context.Background()
	wantErr := errors.New("owner failed")

	release := make(chan struct{})
	started := make(chan struct{})

	var wg sync.WaitGroup
	var followerErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = group.do(ctx, "k", func() (domainmatch.Score, error) {
			close(started)
			<-release
			return domainmatch.Score{}, wantErr
		})
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		_, followerErr = group.do(ctx, "k", func() (domainmatch.Score, error) {
			return domainmatch.Score{}, nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if !errors.Is(followerErr, wantErr) {
		t.Fatalf("follower error = %v, want owner's %v", followerErr, wantErr)
	}
}

func TestFlightGroupFollowerHonorsContext(t *testing.T) {
	group := newFlightGroup()

	release := make(chan struct{})
	started := make(chan struct{})
	defer close(release)

	go func() {
		_, _ = group.do(context.Background(), "k", func() (domainmatch.Score, error) {
			close(started)
			<-release
			return domainmatch.Score{}, nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := group.do(ctx, "k", func() (domainmatch.Score, error) {
		return domainmatch.Score{}, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
