package typecache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shopify/go-lua"
	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/luatime/internal/host/luadt"
	apperrors "github.com/louisbranch/luatime/internal/platform/errors"
)

func TestResolveFromLoadedModule(t *testing.T) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	luadt.Open(l)

	cache := New(nil)
	want := map[Kind]*luadt.Class{
		KindDate:     luadt.DateClass,
		KindDateTime: luadt.DateTimeClass,
		KindDelta:    luadt.DeltaClass,
		KindTZInfo:   luadt.TZInfoClass,
		KindTimezone: luadt.TimezoneClass,
	}
	for kind, cls := range want {
		got, err := cache.Resolve(l, kind)
		if err != nil {
			t.Fatalf("Resolve(%s): %v", kind, err)
		}
		if got != cls {
			t.Fatalf("Resolve(%s) = %v, want %v", kind, got, cls)
		}
	}
	if l.Top() != 0 {
		t.Fatalf("stack top = %d, want 0", l.Top())
	}
}

func TestResolveWithoutModuleIsTypeMismatch(t *testing.T) {
	l := lua.NewState()
	lua.OpenLibraries(l)

	cache := New(nil)
	_, err := cache.Resolve(l, KindDate)
	if !apperrors.IsCode(err, apperrors.CodeTypeMismatch) {
		t.Fatalf("Resolve() error = %v, want TYPE_MISMATCH", err)
	}
	if cache.cached(KindDate) {
		t.Fatal("failure should not be cached")
	}

	luadt.Open(l)
	if _, err := cache.Resolve(l, KindDate); err != nil {
		t.Fatalf("Resolve() after open: %v", err)
	}
	if !cache.cached(KindDate) {
		t.Fatal("expected date to be cached")
	}
}

func TestResolveUnknownKind(t *testing.T) {
	cache := New(func(*lua.State, Kind) (*luadt.Class, error) {
		t.Fatal("resolver should not be called")
		return nil, nil
	})
	if _, err := cache.Resolve(nil, Kind(42)); !apperrors.IsCode(err, apperrors.CodeTypeMismatch) {
		t.Fatalf("Resolve() error = %v, want TYPE_MISMATCH", err)
	}
}

func TestResolveRetriesAfterFailure(t *testing.T) {
	var calls atomic.Int32
	cause := errors.New("not yet")
	cache := New(func(*lua.State, Kind) (*luadt.Class, error) {
		if calls.Add(1) == 1 {
			return nil, cause
		}
		return luadt.DateClass, nil
	})

	_, err := cache.Resolve(nil, KindDate)
	if !errors.Is(err, cause) {
		t.Fatalf("first Resolve() error = %v, want cause", err)
	}
	got, err := cache.Resolve(nil, KindDate)
	if err != nil || got != luadt.DateClass {
		t.Fatalf("second Resolve() = %v, %v", got, err)
	}
	if _, err := cache.Resolve(nil, KindDate); err != nil {
		t.Fatalf("third Resolve(): %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("resolver calls = %d, want 2", calls.Load())
	}
}

func TestConcurrentFirstUseResolvesOnce(t *testing.T) {
	var mu sync.Mutex
	calls := map[Kind]int{}
	cache := New(func(_ *lua.State, kind Kind) (*luadt.Class, error) {
		mu.Lock()
		calls[kind]++
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		return luadt.Classes()[kind], nil
	})

	var g errgroup.Group
	results := make([]*luadt.Class, 64)
	for i := range results {
		i := i
		kind := Kinds()[i%len(Kinds())]
		g.Go(func() error {
			cls, err := cache.Resolve(nil, kind)
			results[i] = cls
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent Resolve(): %v", err)
	}

	for i, cls := range results {
		kind := Kinds()[i%len(Kinds())]
		if cls != luadt.Classes()[kind] {
			t.Fatalf("result %d = %v, want %v", i, cls, luadt.Classes()[kind])
		}
	}
	for _, kind := range Kinds() {
		if calls[kind] != 1 {
			t.Fatalf("resolver calls for %s = %d, want 1", kind, calls[kind])
		}
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Fatal("Default() should return the same cache")
	}
}

func TestWarm(t *testing.T) {
	l := lua.NewState()
	lua.OpenLibraries(l)
	luadt.Open(l)

	cache := New(nil)
	if err := cache.Warm(l); err != nil {
		t.Fatalf("Warm(): %v", err)
	}
	for _, kind := range Kinds() {
		if !cache.cached(kind) {
			t.Fatalf("%s not resolved", kind)
		}
	}
}

func TestJoinedFailureRetriesWithOwnState(t *testing.T) {
	bare := lua.NewState()
	lua.OpenLibraries(bare)
	loaded := lua.NewState()
	lua.OpenLibraries(loaded)
	luadt.Open(loaded)

	started := make(chan struct{})
	release := make(chan struct{})
	cache := New(func(l *lua.State, kind Kind) (*luadt.Class, error) {
		if l == bare {
			close(started)
			<-release
			return nil, errors.New("datetime not loaded")
		}
		return LoadedModule(l, kind)
	})

	var g errgroup.Group
	g.Go(func() error {
		if _, err := cache.Resolve(bare, KindDate); err == nil {
			return errors.New("expected failure for the bare state")
		}
		return nil
	})
	<-started

	var cls *luadt.Class
	g.Go(func() error {
		var err error
		cls, err = cache.Resolve(loaded, KindDate)
		return err
	})
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := g.Wait(); err != nil {
		t.Fatalf("Resolve(): %v", err)
	}
	if cls != luadt.DateClass {
		t.Fatalf("Resolve() = %v, want %v", cls, luadt.DateClass)
	}
	if !cache.cached(KindDate) {
		t.Fatal("expected date to be cached")
	}
}
