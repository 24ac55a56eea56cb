package driver

import (
	"testing"

	"headerlint/internal/header"
	"headerlint/internal/source"
	"headerlint/internal/testkit"
)

func TestResultCacheRoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}

	spec := testSpec()
	fileSet := source.NewFileSet()
	file := fileSet.Get(fileSet.AddVirtual("test.js", []byte(oldSource)))

	finding := header.Validate(file, spec)
	if finding == nil {
		t.Fatal("expected a finding for the outdated header")
	}

	key := resultKey(file.Hash, spec.Hash())
	if err := cache.Put(key, payloadFromFinding(finding)); err != nil {
		t.Fatalf("put: %v", err)
	}

	var got resultPayload
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}

	restored := got.finding(file.ID)
	if restored == nil {
		t.Fatal("expected the restored finding")
	}
	if restored.MessageID != finding.MessageID {
		t.Fatalf("MessageID = %q, want %q", restored.MessageID, finding.MessageID)
	}
	if restored.Span != finding.Span {
		t.Fatalf("Span = %v, want %v", restored.Span, finding.Span)
	}
	if restored.Edit == nil || *restored.Edit != *finding.Edit {
		t.Fatalf("Edit = %+v, want %+v", restored.Edit, finding.Edit)
	}

	// восстановленная находка обязана проходить те же инварианты, что и свежая
	if err := testkit.CheckFindingInvariants(spec, restored, file); err != nil {
		t.Fatalf("restored finding breaks invariants: %v", err)
	}
}

func TestResultCacheMissingKey(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}

	var out resultPayload
	ok, err := cache.Get(resultKey([32]byte{1}, [32]byte{2}), &out)
	if err != nil {
		t.Fatalf("missing entry must not be an error: %v", err)
	}
	if ok {
		t.Fatal("missing entry reported as present")
	}
}

func TestResultCacheDropAll(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}

	key := resultKey([32]byte{3}, [32]byte{4})
	if err := cache.Put(key, &resultPayload{Schema: resultCacheSchemaVersion, Clean: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}

	var out resultPayload
	ok, err := cache.Get(key, &out)
	if err != nil || ok {
		t.Fatalf("expected a miss after DropAll, got ok=%v err=%v", ok, err)
	}

	// повторный DropAll по уже снесённому каталогу не считается ошибкой
	if err := cache.DropAll(); err != nil {
		t.Fatalf("second drop: %v", err)
	}
}

func TestResultKey(t *testing.T) {
	a := resultKey([32]byte{1}, [32]byte{2})
	if b := resultKey([32]byte{1}, [32]byte{2}); a != b {
		t.Fatal("same inputs must derive the same key")
	}
	if b := resultKey([32]byte{9}, [32]byte{2}); a == b {
		t.Fatal("different file hashes must derive different keys")
	}
	if b := resultKey([32]byte{1}, [32]byte{9}); a == b {
		t.Fatal("different spec hashes must derive different keys")
	}
}

func TestPayloadCleanRoundTrip(t *testing.T) {
	p := payloadFromFinding(nil)
	if !p.Clean {
		t.Fatal("nil finding must cache as clean")
	}
	if f := p.finding(source.FileID(5)); f != nil {
		t.Fatalf("clean payload restored a finding: %+v", f)
	}
}

func TestNilResultCache(t *testing.T) {
	var cache *ResultCache
	if err := cache.Put([32]byte{1}, &resultPayload{}); err != nil {
		t.Fatalf("nil cache Put: %v", err)
	}
	var out resultPayload
	if ok, err := cache.Get([32]byte{1}, &out); ok || err != nil {
		t.Fatalf("nil cache Get: ok=%v err=%v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("nil cache DropAll: %v", err)
	}
}

func TestDropResultCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := OpenResultCache(cacheAppName)
	if err != nil {
		t.Fatalf("OpenResultCache: %v", err)
	}
	key := resultKey([32]byte{1}, [32]byte{2})
	if err := cache.Put(key, &resultPayload{Schema: resultCacheSchemaVersion, Clean: true}); err != nil {
		t.Fatalf("put: %v", err)
	}

	dir, err := DropResultCache()
	if err != nil {
		t.Fatalf("DropResultCache: %v", err)
	}
	if dir != cache.Dir() {
		t.Fatalf("dir = %q, want %q", dir, cache.Dir())
	}

	var got resultPayload
	ok, err := cache.Get(key, &got)
	if err != nil {
		t.Fatalf("get after drop: %v", err)
	}
	if ok {
		t.Fatal("entry survived the drop")
	}
}
