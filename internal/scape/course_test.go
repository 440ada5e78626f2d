package scape

import (
	"reflect"
	"testing"
)

func TestCourseIsDeterministicPerSeed(t *testing.T) {
	a := NewCourse(DefaultCourseConfig(17))
	b := NewCourse(DefaultCourseConfig(17))
	// query b in reverse so caching order cannot matter
	_ = b.Platforms(300, 400)
	if !reflect.DeepEqual(a.Platforms(-50, 400), b.Platforms(-50, 400)) {
		t.Fatal("expected identical courses for the same seed")
	}
	c := NewCourse(DefaultCourseConfig(18))
	if reflect.DeepEqual(a.Platforms(20, 2000), c.Platforms(20, 2000)) {
		t.Fatal("expected different seeds to produce different courses")
	}
}

func TestCourseKeepsSpawnClear(t *testing.T) {
	course := NewCourse(CourseConfig{Seed: 3, TileWidth: 2, ClearRange: 20, PitOdds: 1, AirPlatformOdds: 1, AirPlatformMaxHeight: 5})
	for x := -18.0; x <= 18; x += 2 {
		if course.IsPit(x) {
			t.Fatalf("unexpected pit at %f", x)
		}
	}
	for _, p := range course.Platforms(-18, 18) {
		if p.Air && p.X > -20 && p.X < 20 {
			t.Fatalf("unexpected air platform near spawn: %+v", p)
		}
	}
	pits := 0
	for x := 40.0; x < 400; x += 2 {
		if course.IsPit(x) {
			pits++
		}
	}
	if pits == 0 {
		t.Fatal("expected pits far from spawn with high pit odds")
	}
}

func TestCourseLandingPicksHighestSurface(t *testing.T) {
	course := NewCourse(DefaultCourseConfig(5))
	p, ok := course.Landing(0, -1, 1)
	if !ok || p.Top != 0 || p.Air {
		t.Fatalf("expected ground at spawn, got %+v ok=%t", p, ok)
	}
	if _, ok := course.Landing(0, 0.5, 3); ok {
		t.Fatal("expected no surface in window above ground")
	}
}

func TestCourseCacheStaysBounded(t *testing.T) {
	course := NewCourse(DefaultCourseConfig(9))
	early := course.Platforms(0, 200)
	for x := 0.0; x < 20000; x += 50 {
		_ = course.Platforms(x, x+50)
		if n := len(course.columns); n > maxCachedColumns {
			t.Fatalf("tile cache grew to %d at x=%f", n, x)
		}
	}
	if !reflect.DeepEqual(early, course.Platforms(0, 200)) {
		t.Fatal("evicted tiles were rebuilt differently")
	}
	if !reflect.DeepEqual(early, NewCourse(DefaultCourseConfig(9)).Platforms(0, 200)) {
		t.Fatal("evicted tiles differ from a fresh course")
	}
}

func TestTileSeedsDoNotAliasAcrossCourseSeeds(t *testing.T) {
	for i := 0; i < 1000; i++ {
		if tileSeed(1, i) == tileSeed(0, i^1) {
			t.Fatalf("seed 1 tile %d shares a tile seed with seed 0 tile %d", i, i^1)
		}
		if tileSeed(2, i) == tileSeed(3, i) {
			t.Fatalf("seeds 2 and 3 share tile %d", i)
		}
		if tileSeed(5, i) < 0 {
			t.Fatalf("negative tile seed for tile %d", i)
		}
	}
}
