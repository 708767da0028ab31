package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamdex/streamdex/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func behavesLikeAStore(s Store) {
	ctx := context.Background()

	Convey("Absent keys are None", func() {
		v, err := s.Get(ctx, "missing")
		So(err, ShouldBeNil)
		So(v.IsAbsent(), ShouldBeTrue)
	})

	Convey("Values round trip and the last write wins", func() {
		So(s.Set(ctx, "all_content", []byte(`[1]`)), ShouldBeNil)
		So(s.Set(ctx, "all_content", []byte(`[1,2]`)), ShouldBeNil)
		v, err := s.Get(ctx, "all_content")
		So(err, ShouldBeNil)
		So(string(v.MustGet()), ShouldEqual, `[1,2]`)
	})

	Convey("Removed keys disappear and removing twice is fine", func() {
		So(s.Set(ctx, "content_timestamp", []byte("1700000000000")), ShouldBeNil)
		So(s.Remove(ctx, "content_timestamp"), ShouldBeNil)
		So(s.Remove(ctx, "content_timestamp"), ShouldBeNil)
		v, err := s.Get(ctx, "content_timestamp")
		So(err, ShouldBeNil)
		So(v.IsAbsent(), ShouldBeTrue)
	})
}

func TestMemory(t *testing.T) {
	Convey("Given a memory store", t, func() {
		behavesLikeAStore(NewMemory())
	})
}

func TestFile(t *testing.T) {
	Convey("Given a file store", t, func() {
		behavesLikeAStore(NewFile("/store/" + t.Name()))
	})
}

func TestSQLite(t *testing.T) {
	Convey("Given a sqlite store", t, func() {
		s, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "store.db"))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })
		behavesLikeAStore(s)
	})
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("STREAMDEX_TEST_REDIS")
	if addr == "" {
		t.Skip("STREAMDEX_TEST_REDIS not set")
	}

	Convey("Given a redis store", t, func() {
		s, err := NewRedis(context.Background(), addr, 15)
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })
		behavesLikeAStore(s)
	})
}

func TestOpen(t *testing.T) {
	Convey("Open selects the backend", t, func() {
		s, err := Open(context.Background(), Config{Backend: BackendMemory})
		So(err, ShouldBeNil)
		So(s, ShouldHaveSameTypeAs, &Memory{})

		s, err = Open(context.Background(), Config{Backend: BackendFile, Dir: "/store"})
		So(err, ShouldBeNil)
		So(s, ShouldHaveSameTypeAs, &File{})

		_, err = Open(context.Background(), Config{Backend: "etcd"})
		So(err, ShouldNotBeNil)
	})
}
