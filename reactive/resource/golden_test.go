package resource_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/on-the-ground/react_ive_go/reactive/resource"
)

func nextStatus(t *testing.T, ch <-chan resource.Status[string]) resource.Status[string] {
	t.Helper()
	select {
	case st := <-ch:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a status")
	}
	return resource.Status[string]{}
}

// Drives a controller through success, supersede and failure with gated
// producers, then compares the observed status transcript against the
// golden file. Generations and phases are fully deterministic; spans are
// excluded by Status.String.
func TestController_LifecycleTranscript(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := resource.NewController[string](ctx, nil, 16)
	defer ctrl.Close()

	ch, stop := ctrl.Watch()
	defer stop()

	var transcript []string
	record := func(st resource.Status[string]) {
		transcript = append(transcript, st.String())
	}

	// A run that settles normally.
	release1 := make(chan struct{})
	ctrl.Run(func(ctx context.Context) (string, error) {
		<-release1
		return "alpha", nil
	})
	record(nextStatus(t, ch)) // pending 1
	close(release1)
	record(nextStatus(t, ch)) // succeeded 1

	// A run superseded before it settles; its late result must leave no
	// trace in the transcript.
	release2 := make(chan struct{})
	ctrl.Run(func(ctx context.Context) (string, error) {
		<-release2
		return "beta", nil
	})
	record(nextStatus(t, ch)) // pending 2

	release3 := make(chan struct{})
	ctrl.Run(func(ctx context.Context) (string, error) {
		<-release3
		return "gamma", nil
	})
	record(nextStatus(t, ch)) // pending 3
	close(release3)
	record(nextStatus(t, ch)) // succeeded 3

	close(release2) // stale result, discarded
	select {
	case st := <-ch:
		t.Fatalf("superseded run surfaced as %v", st)
	case <-time.After(150 * time.Millisecond):
	}

	// A run that fails.
	release4 := make(chan struct{})
	ctrl.Run(func(ctx context.Context) (string, error) {
		<-release4
		return "", errors.New("boom")
	})
	record(nextStatus(t, ch)) // pending 4
	close(release4)
	record(nextStatus(t, ch)) // failed 4

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "controller_lifecycle", []byte(strings.Join(transcript, "\n")+"\n"))
}
