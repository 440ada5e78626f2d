package scape

import (
	"math"
	"math/rand"
	"sort"
)

// CourseConfig controls procedural platform placement.
type CourseConfig struct {
	Seed int64
	// TileWidth is the width of one ground tile; tiles sit at multiples of it.
	TileWidth float64
	// ClearRange keeps pits and air platforms away from the spawn point.
	ClearRange float64
	// PitOdds scales with log10 of the tile's distance from spawn.
	PitOdds              float64
	AirPlatformOdds      float64
	AirPlatformMaxHeight float64
}

func DefaultCourseConfig(seed int64) CourseConfig {
	return CourseConfig{
		Seed:                 seed,
		TileWidth:            2,
		ClearRange:           20,
		PitOdds:              0.1,
		AirPlatformOdds:      0.1,
		AirPlatformMaxHeight: 5,
	}
}

// Platform is a one-way surface: bodies land on its top from above.
type Platform struct {
	X     float64
	Top   float64
	Width float64
	Air   bool
}

func (p Platform) Covers(x float64) bool {
	half := p.Width / 2
	return x >= p.X-half && x <= p.X+half
}

// maxCachedColumns bounds the tile cache. Tiles are pure functions of
// (seed, tile), so evicted ones are rebuilt identically on demand.
const maxCachedColumns = 1024

type column struct {
	ground *Platform
	air    *Platform
}

// Course is an endless side-scrolling obstacle course. Each tile is derived
// from (seed, tile) alone, so the same seed always yields the same course.
type Course struct {
	cfg     CourseConfig
	columns map[int]column
}

func NewCourse(cfg CourseConfig) *Course {
	if cfg.TileWidth <= 0 {
		cfg.TileWidth = 2
	}
	return &Course{cfg: cfg, columns: make(map[int]column)}
}

func (c *Course) Config() CourseConfig {
	return c.cfg
}

func (c *Course) tileIndex(x float64) int {
	return int(math.Round(x / c.cfg.TileWidth))
}

func (c *Course) column(i int) column {
	if col, ok := c.columns[i]; ok {
		return col
	}
	x := float64(i) * c.cfg.TileWidth
	col := column{}

	roll := rand.New(rand.NewSource(tileSeed(c.cfg.Seed, i)))

	clear := math.Abs(x) < c.cfg.ClearRange
	pit := !clear && roll.Float64() < c.cfg.PitOdds*math.Log10(math.Abs(x))
	if !pit {
		col.ground = &Platform{X: x, Top: 0, Width: c.cfg.TileWidth}
	}
	if !clear && roll.Float64() < c.cfg.AirPlatformOdds {
		col.air = &Platform{
			X:     x,
			Top:   roll.Float64() * c.cfg.AirPlatformMaxHeight,
			Width: c.cfg.TileWidth,
			Air:   true,
		}
	}
	c.columns[i] = col
	if len(c.columns) > maxCachedColumns {
		c.evict(i)
	}
	return col
}

// evict drops cached tiles more than half the cache size away from center.
func (c *Course) evict(center int) {
	keep := maxCachedColumns/2 - 1
	for idx := range c.columns {
		if idx < center-keep || idx > center+keep {
			delete(c.columns, idx)
		}
	}
}

// tileSeed mixes the course seed and tile index with splitmix64 so that
// neighbouring seeds do not share tiles.
func tileSeed(seed int64, tile int) int64 {
	z := splitmix64(uint64(seed)) ^ uint64(int64(tile))
	return int64(splitmix64(z) >> 1)
}

func splitmix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// IsPit reports whether the ground tile at x is missing.
func (c *Course) IsPit(x float64) bool {
	return c.column(c.tileIndex(x)).ground == nil
}

// Landing finds the highest surface under x whose top lies in [low, high].
func (c *Course) Landing(x, low, high float64) (Platform, bool) {
	var (
		best  Platform
		found bool
	)
	i := c.tileIndex(x)
	for _, idx := range []int{i - 1, i, i + 1} {
		col := c.column(idx)
		for _, p := range []*Platform{col.ground, col.air} {
			if p == nil || !p.Covers(x) {
				continue
			}
			if p.Top < low || p.Top > high {
				continue
			}
			if !found || p.Top > best.Top {
				best, found = *p, true
			}
		}
	}
	return best, found
}

// Platforms lists every platform overlapping [x0, x1], ordered by x.
func (c *Course) Platforms(x0, x1 float64) []Platform {
	var out []Platform
	for i := c.tileIndex(x0) - 1; i <= c.tileIndex(x1)+1; i++ {
		col := c.column(i)
		for _, p := range []*Platform{col.ground, col.air} {
			if p == nil {
				continue
			}
			half := p.Width / 2
			if p.X+half < x0 || p.X-half > x1 {
				continue
			}
			out = append(out, *p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X < out[j].X
	})
	return out
}
